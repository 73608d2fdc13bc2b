package blogservice

import (
	"database/sql"
	"time"
)

// Blog rows are written by the publishing system; this service only reads
// them and maintains the like counter.
type Blog struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlogWithLikeStatus annotates a blog with whether the requesting client
// address currently counts as having liked it.
type BlogWithLikeStatus struct {
	Blog
	HasLiked bool `json:"has_liked"`
}

type LikeResult struct {
	BlogID   int64 `json:"blog_id"`
	Likes    int   `json:"likes"`
	HasLiked bool  `json:"has_liked"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
}
