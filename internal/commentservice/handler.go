package commentservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/kecbiofuel/blogapi/internal/common"
)

// ErrNotOwner marks a mutation attempted by an authenticated caller who did
// not write the comment.
var ErrNotOwner = errors.New("caller does not own this comment")

func NewCommentService(db *sql.DB, c *common.Cache) *CommentService {
	return &CommentService{m: newCommentModel(db), c: c}
}

// CreateComment persists a comment for a blog post. The blog id is an opaque
// foreign key owned by another system and is not checked for existence.
func (s *CommentService) CreateComment(ctx context.Context, blogID string, authorID int64, content string) (*Comment, error) {
	content = strings.TrimSpace(content)

	v := common.NewValidator()
	validateBlogID(v, blogID)
	validateContent(v, content)
	validateID(v, authorID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	comment, err := s.m.insert(ctx, blogID, authorID, content)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyCommentsByBlog(blogID))

	return comment, nil
}

// GetCommentsByBlog returns the approved comments of a blog, newest first,
// with the author's name and email resolved. Results are cached per blog and
// invalidated by every mutation for that blog.
func (s *CommentService) GetCommentsByBlog(ctx context.Context, blogID string) ([]Comment, error) {
	v := common.NewValidator()
	validateBlogID(v, blogID)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	key := common.CacheKeyCommentsByBlog(blogID)
	if cached, ok := s.c.Get(key); ok {
		if comments, ok := cached.([]Comment); ok {
			return comments, nil
		}
	}

	comments, err := s.m.getCommentsByBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, comments)

	return comments, nil
}

// UpdateComment overwrites the content of a comment the caller owns.
func (s *CommentService) UpdateComment(ctx context.Context, id, callerID int64, content string) (*Comment, error) {
	content = strings.TrimSpace(content)

	v := common.NewValidator()
	validateID(v, id, "id")
	validateID(v, callerID, "user_id")
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if _, err := s.checkOwnership(ctx, id, callerID); err != nil {
		return nil, err
	}

	comment, err := s.m.updateContent(ctx, id, content)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyCommentsByBlog(comment.BlogID))

	return comment, nil
}

// DeleteComment removes a comment the caller owns.
func (s *CommentService) DeleteComment(ctx context.Context, id, callerID int64) error {
	v := common.NewValidator()
	validateID(v, id, "id")
	validateID(v, callerID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	comment, err := s.checkOwnership(ctx, id, callerID)
	if err != nil {
		return err
	}

	if err := s.m.deleteComment(ctx, id); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyCommentsByBlog(comment.BlogID))

	return nil
}

// ToggleLike flips the liked state for (comment, client ip) and returns the
// new counter. Likes are keyed by observed client address, not authenticated
// identity; the mechanism is intentionally weak and repeated calls from the
// same address alternate the state.
func (s *CommentService) ToggleLike(ctx context.Context, id int64, clientIP string) (*LikeResult, error) {
	v := common.NewValidator()
	validateID(v, id, "id")
	validateClientIP(v, clientIP)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	result, blogID, err := s.m.toggleLike(ctx, id, clientIP)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyCommentsByBlog(blogID))

	return result, nil
}

func (s *CommentService) checkOwnership(ctx context.Context, id, callerID int64) (*Comment, error) {
	comment, err := s.m.getCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if comment.Author.ID != callerID {
		return nil, ErrNotOwner
	}

	return comment, nil
}
