package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var ErrRecordNotFound = errors.New("record not found")

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

func foreignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// getBlogWithLikeStatus fetches a blog and whether clientIP has liked it in
// one round trip.
func (m *BlogModel) getBlogWithLikeStatus(ctx context.Context, id int64, clientIP string) (*BlogWithLikeStatus, error) {
	query := `
		SELECT b.id, b.title, b.content, b.likes, b.created_at, b.updated_at,
		       EXISTS (SELECT 1 FROM blog_likes l WHERE l.blog_id = b.id AND l.client_ip = $2)
		FROM blogs b
		WHERE b.id = $1`

	var blog BlogWithLikeStatus
	err := m.db.QueryRowContext(ctx, query, id, clientIP).Scan(&blog.ID, &blog.Title, &blog.Content, &blog.Likes, &blog.CreatedAt, &blog.UpdatedAt, &blog.HasLiked)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

// toggleLike mirrors the comment toggle: one data-modifying statement, so the
// like row and the counter can never drift apart under concurrent calls, and
// GREATEST floors the counter at zero.
func (m *BlogModel) toggleLike(ctx context.Context, id int64, clientIP string) (*LikeResult, error) {
	query := `
		WITH removed AS (
			DELETE FROM blog_likes
			WHERE blog_id = $1 AND client_ip = $2
			RETURNING 1
		), added AS (
			INSERT INTO blog_likes (blog_id, client_ip)
			SELECT $1, $2
			WHERE NOT EXISTS (SELECT 1 FROM removed)
			RETURNING 1
		)
		UPDATE blogs
		SET likes = GREATEST(0, likes + (SELECT count(*) FROM added) - (SELECT count(*) FROM removed)),
		    updated_at = now()
		WHERE id = $1
		RETURNING likes, (SELECT count(*) FROM added) > 0`

	var result LikeResult
	result.BlogID = id

	err := m.db.QueryRowContext(ctx, query, id, clientIP).Scan(&result.Likes, &result.HasLiked)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		case foreignKeyError(err, "blog_likes_blog_id_fkey"):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &result, nil
}
