package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/cart"
	"github.com/iliyamo/cinema-pos/internal/ledger"
	"github.com/iliyamo/cinema-pos/internal/model"
	"github.com/iliyamo/cinema-pos/internal/report"
	"github.com/iliyamo/cinema-pos/internal/repository"
)

// CartHandler exposes the customer cart, checkout and ticket history.
type CartHandler struct {
	Session *cart.Session
	Catalog *repository.CatalogRepo
	Ledger  *ledger.Ledger
	Tax     cart.TaxPolicy
	Log     *zap.Logger
}

func NewCartHandler(session *cart.Session, catalog *repository.CatalogRepo, l *ledger.Ledger, tax cart.TaxPolicy, log *zap.Logger) *CartHandler {
	if session == nil || catalog == nil || l == nil {
		panic("nil dependency passed to NewCartHandler")
	}
	return &CartHandler{Session: session, Catalog: catalog, Ledger: l, Tax: tax, Log: nopIfNil(log)}
}

// Get handles GET /v1/cart.
func (h *CartHandler) Get(c echo.Context) error {
	v, err := h.Session.View(c.Request().Context())
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, v)
}

type addProductRequest struct {
	ProductID uint64 `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddProduct handles POST /v1/cart/products.  Quantity defaults to 1.
func (h *CartHandler) AddProduct(c echo.Context) error {
	var req addProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	ctx := c.Request().Context()
	p, err := h.Catalog.ProductByID(ctx, req.ProductID)
	if err != nil {
		return fail(c, h.Log, err)
	}
	v, err := h.Session.AddProduct(ctx, p, req.Quantity)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, v)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateLine handles PATCH /v1/cart/lines/:index.
func (h *CartHandler) UpdateLine(c echo.Context) error {
	idx, ok := parseIndex(c)
	if !ok {
		return badRequest(c, "invalid line index")
	}
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	v, err := h.Session.UpdateQuantity(c.Request().Context(), idx, req.Quantity)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, v)
}

// RemoveLine handles DELETE /v1/cart/lines/:index.  A removed ticket line
// does not release its seat.
func (h *CartHandler) RemoveLine(c echo.Context) error {
	idx, ok := parseIndex(c)
	if !ok {
		return badRequest(c, "invalid line index")
	}
	v, err := h.Session.RemoveLine(c.Request().Context(), idx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, v)
}

// Clear handles DELETE /v1/cart.
func (h *CartHandler) Clear(c echo.Context) error {
	if err := h.Session.Clear(c.Request().Context()); err != nil {
		return fail(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Checkout handles POST /v1/cart/checkout for the logged in user.
func (h *CartHandler) Checkout(c echo.Context) error {
	u, err := mustUser(c)
	if err != nil {
		return fail(c, h.Log, err)
	}
	sale, err := h.Session.Checkout(c.Request().Context(), u.Email)
	if errors.Is(err, cart.ErrCartNotCleared) {
		// the sale is already in the ledger
		h.Log.Warn("checkout completed with stale cart", zap.String("sale_id", sale.ID), zap.Error(err))
		c.Response().Header().Set("Warning", `199 - "cart not cleared"`)
		return c.JSON(http.StatusCreated, sale)
	}
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, sale)
}

// MyTickets handles GET /v1/my-tickets, newest purchase first.
func (h *CartHandler) MyTickets(c echo.Context) error {
	u, err := mustUser(c)
	if err != nil {
		return fail(c, h.Log, err)
	}
	sales, err := h.Ledger.ListByIdentity(c.Request().Context(), u.Email, ledger.NewestFirst)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, sales)
}

// ownSale loads the sale in :id.  Customers may only see their own
// sales; staff may see any.
func (h *CartHandler) ownSale(c echo.Context) (model.Sale, error) {
	u, err := mustUser(c)
	if err != nil {
		return model.Sale{}, err
	}
	sale, err := h.Ledger.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return model.Sale{}, err
	}
	if u.Role == model.RoleCustomer && sale.Identity != u.Email {
		return model.Sale{}, errForbidden
	}
	return sale, nil
}

// Receipt handles GET /v1/sales/:id/receipt.pdf.
func (h *CartHandler) Receipt(c echo.Context) error {
	sale, err := h.ownSale(c)
	if err != nil {
		return fail(c, h.Log, err)
	}
	pdf, err := report.SaleReceiptPDF(sale, h.Tax)
	if err != nil {
		return fail(c, h.Log, err)
	}
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="ticket_%s.pdf"`, sale.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// AdmissionQR handles GET /v1/sales/:id/qr.png, the code scanned at the
// door.
func (h *CartHandler) AdmissionQR(c echo.Context) error {
	sale, err := h.ownSale(c)
	if err != nil {
		return fail(c, h.Log, err)
	}
	png, err := report.AdmissionQR(sale)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
