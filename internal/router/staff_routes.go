package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-pos/internal/handler"
	"github.com/iliyamo/cinema-pos/internal/middleware"
	"github.com/iliyamo/cinema-pos/internal/model"
)

// RegisterSeller registers the box office register under /v1/pos.
// Sellers and admins may ring up sales; limit guards checkout.
func RegisterSeller(e *echo.Echo, h *handler.POSHandler, authn middleware.Authenticator, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/pos",
		middleware.JWTAuth(authn),
		middleware.RequireRole(model.RoleSeller, model.RoleAdmin),
	)
	g.GET("/cart", h.Cart)
	g.DELETE("/cart", h.Clear)
	g.POST("/products", h.AddProduct)
	g.POST("/tickets", h.AddTicket)
	g.PATCH("/lines/:index", h.UpdateLine)
	g.DELETE("/lines/:index", h.RemoveLine)
	g.POST("/checkout", h.Checkout, limit)
}

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, authn middleware.Authenticator) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(authn),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/sales", h.Sales)
	g.GET("/reports/products.pdf", h.ProductsReport)
	g.PUT("/products", h.PutProducts)
	g.PUT("/movies", h.PutMovies)
}
