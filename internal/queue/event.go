// Package queue defines message payloads exchanged over the message broker.
package queue

// PostPublishedEvent is published when a post transitions from draft to
// published. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type PostPublishedEvent struct {
	PostID       uint64 `json:"post_id"`
	UserID       uint64 `json:"user_id"`
	AuthorName   string `json:"author_name"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	CategoryName string `json:"category_name,omitempty"`
	PublishedAt  string `json:"published_at"`
}
