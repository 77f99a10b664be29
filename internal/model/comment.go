package model

import "time"

// CommentAuthor is the slice of the owning user embedded in comment
// listings: name and email only, never the full user row.
type CommentAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Comment represents a row in the `comments` table. IsApproved defaults
// to true on create; the column exists for a moderation flow that was
// never wired up, and the API preserves that behavior.
type Comment struct {
	ID         uint64    `json:"id"`      // comments.id
	PostID     uint64    `json:"post_id"` // comments.post_id
	UserID     uint64    `json:"user_id"` // comments.user_id
	Body       string    `json:"body"`    // comments.body
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User *CommentAuthor `json:"user,omitempty"`
}
