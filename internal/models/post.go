package models

import (
	"time"

	"github.com/lib/pq"
)

// Post is a news or blog entry.
type Post struct {
	ID          int64          `db:"id" json:"id"`
	Title       string         `db:"title" json:"title" form:"title" validate:"required,max=200"`
	Slug        string         `db:"slug" json:"slug" form:"slug" validate:"omitempty,max=220"`
	Excerpt     string         `db:"excerpt" json:"excerpt" form:"excerpt"`
	Body        string         `db:"body" json:"body" form:"body" validate:"required"`
	CoverImage  string         `db:"cover_image" json:"coverImage,omitempty" form:"coverImage"`
	Author      string         `db:"author" json:"author" form:"author"`
	Tags        pq.StringArray `db:"tags" json:"tags" form:"tags"`
	Published   bool           `db:"published" json:"published" form:"published"`
	PublishedAt *time.Time     `db:"published_at" json:"publishedAt,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}
