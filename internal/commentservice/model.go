package commentservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *CommentModel) insert(ctx context.Context, blogID string, authorID int64, content string) (*Comment, error) {
	query := `
		INSERT INTO comments (blog_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, is_approved, likes, created_at, updated_at`

	var c Comment
	c.BlogID = blogID
	c.Author.ID = authorID
	c.Content = content

	err := m.db.QueryRowContext(ctx, query, blogID, authorID, content).Scan(&c.ID, &c.IsApproved, &c.Likes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case ForeignKeyError(err, "comments_user_id_fkey"):
			return nil, ErrUserForeignKey
		default:
			return nil, err
		}
	}

	return m.getCommentByID(ctx, c.ID)
}

// getCommentByID joins the author so callers always see the resolved name and
// email, matching the read shape of the listing.
func (m *CommentModel) getCommentByID(ctx context.Context, id int64) (*Comment, error) {
	query := `
		SELECT c.id, c.blog_id, c.content, c.is_approved, c.likes, c.created_at, c.updated_at, u.id, u.name, u.email
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.id = $1`

	var c Comment
	err := m.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.BlogID, &c.Content, &c.IsApproved, &c.Likes, &c.CreatedAt, &c.UpdatedAt, &c.Author.ID, &c.Author.Name, &c.Author.Email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}

// getCommentsByBlog returns approved comments for a blog, newest first.
func (m *CommentModel) getCommentsByBlog(ctx context.Context, blogID string) ([]Comment, error) {
	query := `
		SELECT c.id, c.blog_id, c.content, c.is_approved, c.likes, c.created_at, c.updated_at, u.id, u.name, u.email
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.blog_id = $1 AND c.is_approved = true
		ORDER BY c.created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.BlogID, &c.Content, &c.IsApproved, &c.Likes, &c.CreatedAt, &c.UpdatedAt, &c.Author.ID, &c.Author.Name, &c.Author.Email)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (m *CommentModel) updateContent(ctx context.Context, id int64, content string) (*Comment, error) {
	query := `
		UPDATE comments
		SET content = $1, updated_at = now()
		WHERE id = $2
		RETURNING id`

	err := m.db.QueryRowContext(ctx, query, content, id).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return m.getCommentByID(ctx, id)
}

func (m *CommentModel) deleteComment(ctx context.Context, id int64) error {
	query := `
		DELETE FROM comments
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

// toggleLike flips the (comment, client ip) like state in a single
// data-modifying statement. The CTEs delete an existing like row, insert one
// only when nothing was deleted, and the counter update reads both, so a pair
// of racing toggles cannot interleave a read with a stale write. GREATEST
// floors the counter at zero.
func (m *CommentModel) toggleLike(ctx context.Context, id int64, clientIP string) (*LikeResult, string, error) {
	query := `
		WITH removed AS (
			DELETE FROM comment_likes
			WHERE comment_id = $1 AND client_ip = $2
			RETURNING 1
		), added AS (
			INSERT INTO comment_likes (comment_id, client_ip)
			SELECT $1, $2
			WHERE NOT EXISTS (SELECT 1 FROM removed)
			RETURNING 1
		)
		UPDATE comments
		SET likes = GREATEST(0, likes + (SELECT count(*) FROM added) - (SELECT count(*) FROM removed)),
		    updated_at = now()
		WHERE id = $1
		RETURNING blog_id, likes, (SELECT count(*) FROM added) > 0`

	var (
		result LikeResult
		blogID string
	)
	result.CommentID = id

	err := m.db.QueryRowContext(ctx, query, id, clientIP).Scan(&blogID, &result.Likes, &result.HasLiked)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, "", ErrRecordNotFound
		case ForeignKeyError(err, "comment_likes_comment_id_fkey"):
			return nil, "", ErrRecordNotFound
		default:
			return nil, "", err
		}
	}

	return &result, blogID, nil
}
