package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/parthparmar-growexxer/blog-backend/internal/store"
)

// TokenRepo persists/validates access tokens (single 'token_hash' column).
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreToken inserts an access token hash row.
func (r *TokenRepo) StoreToken(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO access_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// ValidateToken returns the owning userID if a non-revoked, non-expired
// token exists for the hash.
func (r *TokenRepo) ValidateToken(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM access_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, store.ErrTokenInvalid
		}
		return 0, err
	}
	if revokedAt.Valid {
		return 0, store.ErrTokenInvalid
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, store.ErrTokenInvalid
	}
	return userID, nil
}

// RevokeByHash marks a single token as revoked. Other sessions of the
// same user keep working.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE access_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}
