package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-pos/internal/handler"
	"github.com/iliyamo/cinema-pos/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers login and logout under /v1/auth and the
// authenticated /v1/me.  Logout needs no token so a client holding a
// stale one can still end the session.  limit guards login.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authn middleware.Authenticator, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login, limit)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(authn))
}

// RegisterCatalog registers the public billboard and concession routes.
// cache fronts them; pass a pass-through middleware to disable caching.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, s *handler.SeatMapHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/movies", h.Movies)
	g.GET("/movies/:id/showtimes", h.MovieShowtimes)
	g.GET("/products", h.Products)
	g.GET("/categories", h.Categories)

	// seat maps change on every purchase and are never cached
	e.GET("/v1/showtimes/:id/seats", s.Seats)
}
