package userservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kecbiofuel/blogapi/internal/common"
)

type mockProducer struct {
	published [][]byte
}

func (p *mockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	p.published = append(p.published, msg)
	return nil
}

type stubGoogle struct {
	profile *GoogleProfile
}

func (s *stubGoogle) AuthCodeURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (s *stubGoogle) FetchProfile(ctx context.Context, code string) (*GoogleProfile, error) {
	return s.profile, nil
}

func setupTestEnvironment(t *testing.T) (*UserService, *sql.DB, func() error) {
	db := common.TestDB("file://../../migrations", t)

	tokens, err := NewTokenManager("test-secret", "7d")
	assert.NoError(t, err)

	s := NewUserService(db, &mockProducer{}, tokens, &stubGoogle{})

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM users")
		return err
	}

	return s, db, cleanup
}

func TestRegisterUser(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := s.RegisterUser(ctx, "A", "a@x.com", "secret1")
	assert.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "A", res.User.Name)
	assert.Equal(t, ProviderLocal, res.User.AuthProvider)

	// the freshly issued token must be verifiable
	id, err := s.VerifyAccessToken(res.Token)
	assert.NoError(t, err)
	assert.Equal(t, res.User.ID, id)

	// password must be stored hashed
	var hash []byte
	err = db.QueryRow("SELECT password FROM users WHERE id = $1", res.User.ID).Scan(&hash)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, []byte("secret1"), hash)

	assert.NoError(t, cleanup())
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.RegisterUser(ctx, "A", "a@x.com", "secret1")
	assert.NoError(t, err)

	_, err = s.RegisterUser(ctx, "B", "a@x.com", "another1")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	assert.NoError(t, cleanup())
}

func TestRegisterUserValidation(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testCases := []struct {
		name     string
		userName string
		email    string
		password string
		field    string
	}{
		{name: "missing name", userName: "", email: "a@x.com", password: "secret1", field: "name"},
		{name: "bad email", userName: "A", email: "not-an-email", password: "secret1", field: "email"},
		{name: "short password", userName: "A", email: "a@x.com", password: "four", field: "password"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.RegisterUser(ctx, tc.userName, tc.email, tc.password)

			var vErr common.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Errors, tc.field)
		})
	}

	assert.NoError(t, cleanup())
}

func TestLoginUser(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.RegisterUser(ctx, "A", "a@x.com", "secret1")
	assert.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		res, err := s.LoginUser(ctx, "a@x.com", "secret1")
		assert.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "a@x.com", res.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.LoginUser(ctx, "a@x.com", "wrong-password")
		assert.ErrorIs(t, err, ErrAuthenticationFailure)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := s.LoginUser(ctx, "nobody@x.com", "secret1")
		assert.ErrorIs(t, err, ErrAuthenticationFailure)
	})

	assert.NoError(t, cleanup())
}

func TestLoginUserWrongProvider(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.UpsertFromGoogleProfile(ctx, "g-123", "g@x.com", "G")
	assert.NoError(t, err)

	_, err = s.LoginUser(ctx, "g@x.com", "secret1")
	assert.ErrorIs(t, err, ErrWrongProvider)

	assert.NoError(t, cleanup())
}

func TestUpsertFromGoogleProfile(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("creates google user", func(t *testing.T) {
		u, err := s.UpsertFromGoogleProfile(ctx, "g-1", "new@x.com", "New")
		assert.NoError(t, err)
		assert.Equal(t, ProviderGoogle, u.AuthProvider)
		assert.NotNil(t, u.GoogleID)
		assert.Equal(t, "g-1", *u.GoogleID)
	})

	t.Run("links matching local account by email", func(t *testing.T) {
		res, err := s.RegisterUser(ctx, "Local", "local@x.com", "secret1")
		assert.NoError(t, err)

		u, err := s.UpsertFromGoogleProfile(ctx, "g-2", "local@x.com", "Local")
		assert.NoError(t, err)
		assert.Equal(t, res.User.ID, u.ID)
		assert.NotNil(t, u.GoogleID)
		assert.Equal(t, "g-2", *u.GoogleID)
		assert.Equal(t, ProviderGoogle, u.AuthProvider)
	})

	t.Run("idempotent for an already linked account", func(t *testing.T) {
		first, err := s.UpsertFromGoogleProfile(ctx, "g-3", "again@x.com", "Again")
		assert.NoError(t, err)

		second, err := s.UpsertFromGoogleProfile(ctx, "g-3", "again@x.com", "Again")
		assert.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	assert.NoError(t, cleanup())
}

func TestHandleGoogleCallback(t *testing.T) {
	db := common.TestDB("file://../../migrations", t)

	tokens, err := NewTokenManager("test-secret", "7d")
	assert.NoError(t, err)

	google := &stubGoogle{profile: &GoogleProfile{ID: "g-9", Email: "cb@x.com", Name: "CB"}}
	s := NewUserService(db, &mockProducer{}, tokens, google)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	state, err := tokens.IssueState()
	assert.NoError(t, err)

	res, err := s.HandleGoogleCallback(ctx, state, "auth-code")
	assert.NoError(t, err)
	assert.Equal(t, "cb@x.com", res.User.Email)

	id, err := tokens.Verify(res.Token)
	assert.NoError(t, err)
	assert.Equal(t, res.User.ID, id)

	t.Run("rejects a bad state", func(t *testing.T) {
		_, err := s.HandleGoogleCallback(ctx, "forged-state", "auth-code")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestGetUserByID(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := s.RegisterUser(ctx, "A", "a@x.com", "secret1")
	assert.NoError(t, err)

	u, err := s.GetUserByID(ctx, res.User.ID)
	assert.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, ProviderLocal, u.Profile().AuthProvider)

	// deleted after issuance
	_, err = db.Exec("DELETE FROM users WHERE id = $1", res.User.ID)
	assert.NoError(t, err)

	_, err = s.GetUserByID(ctx, res.User.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, cleanup())
}
