package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/cart"
)

// POSHandler is the box office register.  Every seller works on their
// own cart, keyed by the session email.
type POSHandler struct {
	Register *cart.Register
	Log      *zap.Logger
}

func NewPOSHandler(r *cart.Register, log *zap.Logger) *POSHandler {
	if r == nil {
		panic("nil register passed to NewPOSHandler")
	}
	return &POSHandler{Register: r, Log: nopIfNil(log)}
}

func (h *POSHandler) seller(c echo.Context) (string, error) {
	u, err := mustUser(c)
	return u.Email, err
}

// Cart handles GET /v1/pos/cart.
func (h *POSHandler) Cart(c echo.Context) error {
	seller, err := h.seller(c)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, h.Register.View(seller))
}

// AddProduct handles POST /v1/pos/products.
func (h *POSHandler) AddProduct(c echo.Context) error {
	seller, err := h.seller(c)
	if err != nil {
		return fail(c, h.Log, err)
	}
	var req addProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	v, err := h.Register.AddProduct(c.Request().Context(), seller, req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, v)
}

type addTicketRequest struct {
	ShowtimeID uint64 `json:"showtimeId"`
}

// AddTicket handles POST /v1/pos/tickets.  Box office tickets carry no
// seat.
func (h *POSHandler) AddTicket(c echo.Context) error {
	seller, err := h.seller(c)
	if err != nil {
		return fail(c, h.Log, err)
	}
	var req addTicketRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	v, err := h.Register.AddShowtimeTicket(c.Request().Context(), seller, req.ShowtimeID)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, v)
}

// UpdateLine handles PATCH /v1/pos/lines/:index.
func (h *POSHandler) UpdateLine(c echo.Context) error {
	seller, err := h.seller(c)
	if err != nil {
		return fail(c, h.Log, err)
	}
	idx, ok := parseIndex(c)
	if !ok {
		return badRequest(c, "invalid line index")
	}
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	v, err := h.Register.UpdateQuantity(seller, idx, req.Quantity)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, v)
}

// RemoveLine handles DELETE /v1/pos/lines/:index.
func (h *POSHandler) RemoveLine(c echo.Context) error {
	seller, err := h.seller(c)
	if err != nil {
		return fail(c, h.Log, err)
	}
	idx, ok := parseIndex(c)
	if !ok {
		return badRequest(c, "invalid line index")
	}
	v, err := h.Register.RemoveLine(seller, idx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, v)
}

// Clear handles DELETE /v1/pos/cart.
func (h *POSHandler) Clear(c echo.Context) error {
	seller, err := h.seller(c)
	if err != nil {
		return fail(c, h.Log, err)
	}
	h.Register.Clear(seller)
	return c.NoContent(http.StatusNoContent)
}

// Checkout handles POST /v1/pos/checkout.
func (h *POSHandler) Checkout(c echo.Context) error {
	seller, err := h.seller(c)
	if err != nil {
		return fail(c, h.Log, err)
	}
	sale, err := h.Register.Checkout(c.Request().Context(), seller)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, sale)
}
