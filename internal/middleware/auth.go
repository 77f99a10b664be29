package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"  // context with timeout bounds the token lookup
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming
    "time"     // timeout durations

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/parthparmar-growexxer/blog-backend/internal/model"
    "github.com/parthparmar-growexxer/blog-backend/internal/store"
    "github.com/parthparmar-growexxer/blog-backend/internal/utils"
)

// Context keys under which BearerAuth stores the authenticated identity.
// Handlers read these back via CurrentUser and CurrentTokenHash.
const (
    ctxUserKey      = "auth_user"
    ctxTokenHashKey = "auth_token_hash"
)

// BearerAuth returns an Echo middleware that validates an opaque Bearer
// access token against the token store and loads the owning user into
// the request context. Tokens are matched by their SHA-256 hash; rows
// that are revoked or expired fail validation exactly like unknown
// ones. Every failure mode answers 401 with the standard envelope and
// the message "Unauthenticated".
func BearerAuth(tokens store.TokenStore, users store.UserStore) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the raw token.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
            }
            raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
            if raw == "" {
                return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
            }
            hash := utils.HashTokenRaw(raw)

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()

            userID, err := tokens.ValidateToken(ctx, hash)
            if err != nil {
                if err == store.ErrTokenInvalid {
                    return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
                }
                return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to authenticate request")
            }
            u, err := users.GetUserByID(ctx, userID)
            if err != nil {
                // The owning user may have been deleted while its token lived on.
                if err == store.ErrNotFound {
                    return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
                }
                return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to authenticate request")
            }

            c.Set(ctxUserKey, u)
            c.Set(ctxTokenHashKey, hash)
            return next(c)
        }
    }
}

// CurrentUser returns the authenticated user stored by BearerAuth. The
// boolean is false when the route was not wrapped by the middleware.
func CurrentUser(c echo.Context) (model.User, bool) {
    u, ok := c.Get(ctxUserKey).(model.User)
    return u, ok
}

// CurrentTokenHash returns the hash of the token that authenticated the
// current request. Logout revokes exactly this row.
func CurrentTokenHash(c echo.Context) string {
    h, _ := c.Get(ctxTokenHashKey).(string)
    return h
}
