package model

import "time"

// Role values stored in users.role. New registrations always start as
// RoleAuthor; admins are promoted out of band (see cmd/seed).
const (
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

// User represents a row in the `users` table. The password hash is
// never serialized; handlers return the struct directly inside the
// response envelope.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  Role         – "author" or "admin".
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`         // users.id
	Name         string    `json:"name"`       // users.name
	Email        string    `json:"email"`      // users.email
	PasswordHash string    `json:"-"`          // users.password_hash
	Role         string    `json:"role"`       // users.role
	CreatedAt    time.Time `json:"created_at"` // users.created_at
	UpdatedAt    time.Time `json:"updated_at"` // users.updated_at
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// AccessToken models an entry in the `access_tokens` table. Each token
// belongs to a user; several live tokens per user may coexist (one per
// device/session). The plain token is never stored, only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null while still active).
//  CreatedAt – timestamp of creation.
type AccessToken struct {
	ID        uint64     // access_tokens.id
	UserID    uint64     // access_tokens.user_id
	TokenHash string     // access_tokens.token_hash
	ExpiresAt time.Time  // access_tokens.expires_at
	RevokedAt *time.Time // access_tokens.revoked_at (nullable)
	CreatedAt time.Time  // access_tokens.created_at
}
