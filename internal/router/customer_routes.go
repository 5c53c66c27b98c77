package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-pos/internal/handler"
	"github.com/iliyamo/cinema-pos/internal/middleware"
	"github.com/iliyamo/cinema-pos/internal/model"
)

// RegisterCustomer registers the online purchase flow under /v1: seat
// selection, the cart, checkout and ticket history.  Every route requires
// a session; staff may use the flow too.
func RegisterCustomer(e *echo.Echo, s *handler.SeatMapHandler, h *handler.CartHandler, authn middleware.Authenticator, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(authn),
		middleware.RequireRole(model.RoleCustomer, model.RoleSeller, model.RoleAdmin),
	)
	g.POST("/showtimes/:id/seats/select", s.Select)
	g.POST("/showtimes/:id/seats/confirm", s.Confirm)

	g.GET("/cart", h.Get)
	g.DELETE("/cart", h.Clear)
	g.POST("/cart/products", h.AddProduct)
	g.PATCH("/cart/lines/:index", h.UpdateLine)
	g.DELETE("/cart/lines/:index", h.RemoveLine)
	g.POST("/cart/checkout", h.Checkout, limit)

	g.GET("/my-tickets", h.MyTickets)
	g.GET("/sales/:id/receipt.pdf", h.Receipt)
	g.GET("/sales/:id/qr.png", h.AdmissionQR)
}
