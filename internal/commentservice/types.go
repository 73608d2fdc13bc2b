package commentservice

import (
	"database/sql"
	"time"

	"github.com/kecbiofuel/blogapi/internal/common"
)

type Comment struct {
	ID         int64         `json:"id"`
	BlogID     string        `json:"blog_id"`
	Author     CommentAuthor `json:"author"`
	Content    string        `json:"content"`
	IsApproved bool          `json:"is_approved"`
	Likes      int           `json:"likes"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type CommentAuthor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LikeResult is the outcome of a toggle: the new counter value and whether the
// calling address now counts as having liked the comment.
type LikeResult struct {
	CommentID int64 `json:"comment_id"`
	Likes     int   `json:"likes"`
	HasLiked  bool  `json:"has_liked"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m *CommentModel
	c *common.Cache
}
