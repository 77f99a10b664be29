package model

import "time"

// Category represents a row in the `categories` table. The slug is
// derived from the name on create/update and is never supplied by the
// client.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – human readable category name.
//  Slug      – URL-safe identifier derived from Name.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Category struct {
	ID        uint64    `json:"id"`         // categories.id
	Name      string    `json:"name"`       // categories.name
	Slug      string    `json:"slug"`       // categories.slug
	CreatedAt time.Time `json:"created_at"` // categories.created_at
	UpdatedAt time.Time `json:"updated_at"` // categories.updated_at
}
