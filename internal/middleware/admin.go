package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/parthparmar-growexxer/blog-backend/internal/utils"
)

// RequireAdmin enforces that the authenticated user carries the admin
// role. It assumes BearerAuth already ran and stored the user in the
// context; requests from non-admins (or unauthenticated requests that
// slipped past) are rejected with 403 and the envelope message
// "Unauthorized".
func RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            u, ok := CurrentUser(c)
            if !ok || !u.IsAdmin() {
                return utils.Respond(c, http.StatusForbidden, nil, "Unauthorized")
            }
            return next(c)
        }
    }
}
