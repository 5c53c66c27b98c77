package middleware

// identity.go holds helpers for reading the authenticated user back out
// of the Echo context.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-pos/internal/model"
)

// CurrentUser returns the profile stored by JWTAuth.
func CurrentUser(c echo.Context) (model.UserProfile, bool) {
	u, ok := c.Get(ctxUser).(model.UserProfile)
	return u, ok
}

// identity returns the authenticated email, or "guest" on public routes.
func identity(c echo.Context) string {
	if v, ok := c.Get(ctxEmail).(string); ok && v != "" {
		return v
	}
	return "guest"
}
