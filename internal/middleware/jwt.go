package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-pos/internal/model"
)

// Authenticator resolves a bearer token to the logged in profile.
// auth.Sessions implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (model.UserProfile, error)
}

// Context keys set by JWTAuth.
const (
	ctxUser  = "user"
	ctxEmail = "email"
	ctxRole  = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer session token
// and injects the session's profile, email and role into the request
// context.  A token that verifies but no longer belongs to the current
// session (after logout or a new login) is rejected too.
func JWTAuth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			u, err := authn.Authenticate(c.Request().Context(), raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(ctxUser, u)
			c.Set(ctxEmail, u.Email)
			c.Set(ctxRole, string(u.Role))
			return next(c)
		}
	}
}
