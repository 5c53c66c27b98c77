package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/auth"
	"github.com/iliyamo/cinema-pos/internal/model"
)

// AuthHandler exposes login, logout and the current profile.
type AuthHandler struct {
	Sessions *auth.Sessions
	Log      *zap.Logger
}

func NewAuthHandler(s *auth.Sessions, log *zap.Logger) *AuthHandler {
	if s == nil {
		panic("nil sessions passed to NewAuthHandler")
	}
	return &AuthHandler{Sessions: s, Log: nopIfNil(log)}
}

type loginRequest struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// Login handles POST /v1/auth/login.  The body carries an email and a
// role; the response is the stored profile including its token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	u, err := h.Sessions.Login(c.Request().Context(), req.Email, req.Role)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Logout handles POST /v1/auth/logout.  It is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Sessions.Logout(c.Request().Context()); err != nil {
		return fail(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := mustUser(c)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, u)
}
