package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/ledger"
	"github.com/iliyamo/cinema-pos/internal/model"
	"github.com/iliyamo/cinema-pos/internal/report"
	"github.com/iliyamo/cinema-pos/internal/repository"
)

// AdminHandler serves the dashboard, sales listing, product report and
// catalog write-through.
type AdminHandler struct {
	Ledger  *ledger.Ledger
	Catalog *repository.CatalogRepo
	// Invalidate drops cached catalog responses after a write; may be nil.
	Invalidate func(ctx context.Context) error
	Now        func() time.Time
	Log        *zap.Logger
}

func NewAdminHandler(l *ledger.Ledger, catalog *repository.CatalogRepo, invalidate func(context.Context) error, log *zap.Logger) *AdminHandler {
	if l == nil || catalog == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Ledger: l, Catalog: catalog, Invalidate: invalidate, Now: time.Now, Log: nopIfNil(log)}
}

// Dashboard handles GET /v1/admin/dashboard.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	sum, err := h.Ledger.Summarize(ctx, h.Now())
	if err != nil {
		return fail(c, h.Log, err)
	}
	products, err := h.Catalog.Products(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	movies, err := h.Catalog.Movies(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"sales":     sum,
		"inventory": report.Inventory(products),
		"movies":    len(movies),
	})
}

// Sales handles GET /v1/admin/sales.  ?date=YYYY-MM-DD narrows the list
// to that day; "today" is accepted as a shortcut.
func (h *AdminHandler) Sales(c echo.Context) error {
	ctx := c.Request().Context()
	date := c.QueryParam("date")
	if date == "today" {
		date = h.Now().UTC().Format("2006-01-02")
	}
	var (
		sales []model.Sale
		err   error
	)
	if date == "" {
		sales, err = h.Ledger.ListAll(ctx)
	} else {
		if _, perr := time.Parse("2006-01-02", date); perr != nil {
			return badRequest(c, "date must be YYYY-MM-DD")
		}
		sales, err = h.Ledger.ListByDatePrefix(ctx, date)
	}
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, sales)
}

// ProductsReport handles GET /v1/admin/reports/products.pdf.
func (h *AdminHandler) ProductsReport(c echo.Context) error {
	ctx := c.Request().Context()
	products, err := h.Catalog.Products(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	categories, err := h.Catalog.Categories(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	now := h.Now()
	pdf, err := report.ProductsPDF(products, categories, now)
	if err != nil {
		return fail(c, h.Log, err)
	}
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="productos_%d.pdf"`, now.UnixMilli()))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// PutProducts handles PUT /v1/admin/products and replaces the catalog.
func (h *AdminHandler) PutProducts(c echo.Context) error {
	var products []model.Product
	if err := c.Bind(&products); err != nil {
		return badRequest(c, "invalid request body")
	}
	seen := make(map[uint64]bool, len(products))
	for _, p := range products {
		if p.ID == 0 || seen[p.ID] {
			return badRequest(c, "every product needs a unique id")
		}
		if p.PriceCents < 0 || p.Stock < 0 {
			return badRequest(c, "price and stock must not be negative")
		}
		seen[p.ID] = true
	}
	ctx := c.Request().Context()
	if err := h.Catalog.SaveProducts(ctx, products); err != nil {
		return fail(c, h.Log, err)
	}
	h.invalidate(ctx)
	return c.JSON(http.StatusOK, products)
}

// PutMovies handles PUT /v1/admin/movies.  A missing format defaults to 2D.
func (h *AdminHandler) PutMovies(c echo.Context) error {
	var movies []model.Movie
	if err := c.Bind(&movies); err != nil {
		return badRequest(c, "invalid request body")
	}
	seen := make(map[uint64]bool, len(movies))
	for i := range movies {
		if movies[i].ID == 0 || seen[movies[i].ID] {
			return badRequest(c, "every movie needs a unique id")
		}
		seen[movies[i].ID] = true
		if movies[i].Format == "" {
			movies[i].Format = "2D"
		}
	}
	ctx := c.Request().Context()
	if err := h.Catalog.SaveMovies(ctx, movies); err != nil {
		return fail(c, h.Log, err)
	}
	h.invalidate(ctx)
	return c.JSON(http.StatusOK, movies)
}

func (h *AdminHandler) invalidate(ctx context.Context) {
	if h.Invalidate == nil {
		return
	}
	if err := h.Invalidate(ctx); err != nil {
		h.Log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
