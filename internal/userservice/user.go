package userservice

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrNotFound       = errors.New("user not found")
)

func NewUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func (m *DBModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (name, email, password, google_id, auth_provider)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at, version`

	var hash []byte
	if u.AuthProvider == ProviderLocal {
		hash = u.Password.hash
	}

	args := []any{
		u.Name,
		u.Email,
		hash,
		u.GoogleID,
		u.AuthProvider,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case err.Error() == "pq: duplicate key value violates unique constraint \"users_email_key\"":
			return ErrDuplicateEmail
		default:
			return err
		}
	}
	return nil
}

func (m *DBModel) getUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password, google_id, auth_provider, created_at, updated_at, version
		FROM users
		WHERE email = $1`

	return m.scanUser(m.db.QueryRowContext(ctx, query, email))
}

func (m *DBModel) getUserByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, name, email, password, google_id, auth_provider, created_at, updated_at, version
		FROM users
		WHERE id = $1`

	return m.scanUser(m.db.QueryRowContext(ctx, query, id))
}

// getUserByGoogleIDOrEmail implements the dual-key lookup used by the federated
// login flow: a row matches when either the google identity or the email does.
func (m *DBModel) getUserByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*User, error) {
	query := `
		SELECT id, name, email, password, google_id, auth_provider, created_at, updated_at, version
		FROM users
		WHERE google_id = $1 OR email = $2`

	return m.scanUser(m.db.QueryRowContext(ctx, query, googleID, email))
}

func (m *DBModel) scanUser(row *sql.Row) (*User, error) {
	var u User

	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password.hash, &u.GoogleID, &u.AuthProvider, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

// linkGoogleIdentity backfills the google id onto an existing account. The
// WHERE clause makes the attach a no-op when an id is already present, so a
// repeated callback cannot overwrite an established link.
func (m *DBModel) linkGoogleIdentity(ctx context.Context, u *User, googleID string) error {
	query := `
		UPDATE users
		SET google_id = $1, auth_provider = $2, updated_at = now(), version = version + 1
		WHERE id = $3 AND google_id IS NULL
		RETURNING google_id, auth_provider, version`

	err := m.db.QueryRowContext(ctx, query, googleID, ProviderGoogle, u.ID).Scan(&u.GoogleID, &u.AuthProvider, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// already linked
			return nil
		default:
			return err
		}
	}

	return nil
}
