package model

import "time"

// Post represents a row in the `posts` table. The slug combines a
// slugified title with a unix-seconds suffix so that repeated titles
// stay unique. CategoryID and Banner are nullable: a post may be
// uncategorized, and the banner path is only set after an upload.
//
// User and Category hold the joined owner/category rows when the query
// eager-loads them; they stay nil (and are omitted from JSON) on plain
// single-table reads.
type Post struct {
	ID          uint64    `json:"id"`          // posts.id
	UserID      uint64    `json:"user_id"`     // posts.user_id
	CategoryID  *uint64   `json:"category_id"` // posts.category_id (nullable)
	Title       string    `json:"title"`       // posts.title
	Slug        string    `json:"slug"`        // posts.slug
	Content     string    `json:"content"`     // posts.content
	Banner      *string   `json:"banner"`      // posts.banner (nullable file path)
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User     *User     `json:"user,omitempty"`
	Category *Category `json:"category,omitempty"`
}
