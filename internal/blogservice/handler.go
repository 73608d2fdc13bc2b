package blogservice

import (
	"context"
	"database/sql"

	"github.com/kecbiofuel/blogapi/internal/common"
)

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{m: newBlogModel(db)}
}

// GetBlogWithLikeStatus returns a blog annotated with whether clientIP is
// currently among its likers.
func (s *BlogService) GetBlogWithLikeStatus(ctx context.Context, id int64, clientIP string) (*BlogWithLikeStatus, error) {
	v := common.NewValidator()
	v.Check(id > 0, "id", "must be greater than zero")
	v.Check(clientIP != "", "client_ip", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogWithLikeStatus(ctx, id, clientIP)
}

// ToggleLike flips the liked state for (blog, client ip), identically to the
// comment toggle.
func (s *BlogService) ToggleLike(ctx context.Context, id int64, clientIP string) (*LikeResult, error) {
	v := common.NewValidator()
	v.Check(id > 0, "id", "must be greater than zero")
	v.Check(clientIP != "", "client_ip", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.toggleLike(ctx, id, clientIP)
}
