package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA-256 hashing for access tokens
    "encoding/hex"  // hex encoding functions
    "time"          // time utilities for generating expirations
)

// AccessToken represents an opaque bearer credential issued on register
// and login. The Raw field contains the token string returned to the
// client.  Exp records when it expires.  In the database only a SHA-256
// hash of the raw string is stored, so a leaked table cannot be used to
// authenticate.
type AccessToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// NewAccessToken returns a cryptographically secure random token and its
// expiration time.  The ttlHours parameter controls how many hours the
// token stays valid; validation treats expired rows the same as revoked
// ones.
func NewAccessToken(ttlHours int) (AccessToken, error) {
    // Generate a random 32-byte string and encode it as hex (64 characters).
    raw, err := randomHex(32)
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour),
    }, nil
}

// HashTokenRaw returns the SHA-256 hash of the raw token as a hex string.
// All lookups in the access_tokens table go through this digest.
func HashTokenRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
