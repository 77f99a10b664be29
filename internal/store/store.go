package store

import (
	"context"
	"errors"
	"time"

	"github.com/parthparmar-growexxer/blog-backend/internal/model"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrEmailExists  = errors.New("email already exists")
	ErrTokenInvalid = errors.New("token invalid")
)

// PostUpdate carries the optional fields of a partial post update. Nil
// pointers mean "leave unchanged"; Slug is only set alongside Title.
type PostUpdate struct {
	Title       *string
	Slug        *string
	Content     *string
	CategoryID  *uint64
	ClearCat    bool
	IsPublished *bool
	Banner      *string
}

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore persists hashed access tokens.
type TokenStore interface {
	StoreToken(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	// ValidateToken returns the owning user ID for a live (not revoked,
	// not expired) token hash, or ErrTokenInvalid.
	ValidateToken(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
}

// CategoryStore persists categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, cat *model.Category) error
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id uint64) (model.Category, error)
	UpdateCategory(ctx context.Context, cat *model.Category) error
	DeleteCategory(ctx context.Context, id uint64) error
}

// PostStore persists posts. List methods eager-load the owning user and
// category rows.
type PostStore interface {
	CreatePost(ctx context.Context, p *model.Post) error
	GetPost(ctx context.Context, id uint64) (model.Post, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Post, error)
	ListPublished(ctx context.Context) ([]model.Post, error)
	ListPublishedByCategory(ctx context.Context, categoryID uint64) ([]model.Post, error)
	UpdatePost(ctx context.Context, id uint64, upd PostUpdate) error
	SetPublished(ctx context.Context, id uint64, published bool) error
	DeletePost(ctx context.Context, id uint64) error
}

// CommentStore persists comments.
type CommentStore interface {
	CreateComment(ctx context.Context, cm *model.Comment) error
	ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error)
	GetComment(ctx context.Context, id uint64) (model.Comment, error)
	DeleteComment(ctx context.Context, id uint64) error
}
