package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/repository"
)

// CatalogHandler serves the read-only billboard and concession catalog.
// These routes are public and sit behind the response cache.
type CatalogHandler struct {
	Catalog *repository.CatalogRepo
	Log     *zap.Logger
}

func NewCatalogHandler(catalog *repository.CatalogRepo, log *zap.Logger) *CatalogHandler {
	if catalog == nil {
		panic("nil catalog passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: catalog, Log: nopIfNil(log)}
}

// Movies handles GET /v1/movies.
func (h *CatalogHandler) Movies(c echo.Context) error {
	movies, err := h.Catalog.Movies(c.Request().Context())
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, movies)
}

// MovieShowtimes handles GET /v1/movies/:id/showtimes and returns the
// movie with its showtimes grouped by date.
func (h *CatalogHandler) MovieShowtimes(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie id")
	}
	ctx := c.Request().Context()
	movie, err := h.Catalog.MovieByID(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	showtimes, err := h.Catalog.ShowtimesByMovie(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"movie": movie,
		"dates": repository.GroupByDate(showtimes),
	})
}

// Products handles GET /v1/products.  ?category= filters by category id
// and ?q= searches name and SKU; both may be combined.
func (h *CatalogHandler) Products(c echo.Context) error {
	ctx := c.Request().Context()
	var categoryID uint64
	if v := c.QueryParam("category"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid category")
		}
		categoryID = n
	}
	q := c.QueryParam("q")
	if q == "" {
		products, err := h.Catalog.ProductsByCategory(ctx, categoryID)
		if err != nil {
			return fail(c, h.Log, err)
		}
		return c.JSON(http.StatusOK, products)
	}
	products, err := h.Catalog.SearchProducts(ctx, q, 0)
	if err != nil {
		return fail(c, h.Log, err)
	}
	if categoryID != 0 {
		filtered := products[:0]
		for _, p := range products {
			if p.CategoryID == categoryID {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	return c.JSON(http.StatusOK, products)
}

// Categories handles GET /v1/categories.
func (h *CatalogHandler) Categories(c echo.Context) error {
	categories, err := h.Catalog.Categories(c.Request().Context())
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, categories)
}
