package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/auth"
	"github.com/iliyamo/cinema-pos/internal/cart"
	"github.com/iliyamo/cinema-pos/internal/handler"
	"github.com/iliyamo/cinema-pos/internal/ledger"
	"github.com/iliyamo/cinema-pos/internal/model"
	"github.com/iliyamo/cinema-pos/internal/repository"
	"github.com/iliyamo/cinema-pos/internal/seatmap"
	"github.com/iliyamo/cinema-pos/internal/store"
)

type testServer struct {
	e       *echo.Echo
	catalog *repository.CatalogRepo
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	return newTestServerWithCart(t, func(c cart.Store) cart.Store { return c })
}

// newTestServerWithCart lets a test wrap the customer cart store.
func newTestServerWithCart(t *testing.T, wrap func(cart.Store) cart.Store) testServer {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()
	st := store.NewMemoryStore()
	today := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repository.Bootstrap(ctx, st, "cinema", rand.New(rand.NewSource(1)), today))

	catalog := repository.NewCatalogRepo(st, "cinema")
	sales := ledger.New(repository.NewSaleRepo(st, "cinema"), "STAR", log)
	tax := cart.DefaultTaxPolicy()
	session := cart.NewSession(wrap(repository.NewCartRepo(st, "cinema")), sales, tax, nil, log)
	register := cart.NewRegister(catalog, sales, tax, nil, log)
	sessions := auth.NewSessions(repository.NewUserRepo(st, "cinema"), "test-secret", time.Hour, log)

	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	e := echo.New()
	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(sessions, log), sessions, passthrough)
	seat := handler.NewSeatMapHandler(seatmap.NewEngine(catalog, log), session, log)
	RegisterCatalog(e, handler.NewCatalogHandler(catalog, log), seat, passthrough)
	RegisterCustomer(e, seat, handler.NewCartHandler(session, catalog, sales, tax, log), sessions, passthrough)
	RegisterSeller(e, handler.NewPOSHandler(register, log), sessions, passthrough)
	RegisterAdmin(e, handler.NewAdminHandler(sales, catalog, nil, log), sessions)
	return testServer{e: e, catalog: catalog}
}

func (s testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s testServer) login(t *testing.T, email string, role model.Role) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": email, "role": string(role)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var u model.UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	return u.SessionToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// availableSeats picks n selectable seats from a standard room showtime.
func availableSeats(t *testing.T, s testServer, showtimeID uint64, n int) []string {
	t.Helper()
	seats, err := s.catalog.Seats(context.Background(), showtimeID)
	require.NoError(t, err)
	out := make([]string, 0, n)
	for _, seat := range seats {
		if seat.Status == model.SeatAvailable && len(out) < n {
			out = append(out, seat.Label())
		}
	}
	require.Len(t, out, n)
	return out
}

func TestHealthAndCatalog(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/healthz", "", nil).Code)

	movies := decode[[]model.Movie](t, s.do(t, http.MethodGet, "/v1/movies", "", nil))
	assert.Len(t, movies, 8)

	products := decode[[]model.Product](t, s.do(t, http.MethodGet, "/v1/products?category=3", "", nil))
	assert.Len(t, products, 50)

	found := decode[[]model.Product](t, s.do(t, http.MethodGet, "/v1/products?q=nachos", "", nil))
	assert.NotEmpty(t, found)

	rec := s.do(t, http.MethodGet, "/v1/movies/1/showtimes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Dates []repository.DateGroup `json:"dates"`
	}](t, rec)
	assert.Len(t, body.Dates, 3)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/v1/movies/99/showtimes", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/v1/showtimes/9999/seats", "", nil).Code)
}

func TestCustomerPurchaseFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "ana@star.mx", model.RoleCustomer)

	// showtime 1 is the first slot, which rotates onto a standard room
	picks := availableSeats(t, s, 1, 2)
	number, err := strconv.Atoi(picks[0][1:])
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/v1/showtimes/1/seats/select", token,
		map[string]any{"selection": []string{}, "row": picks[0][:1], "number": number})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/v1/showtimes/1/seats/confirm", token, map[string]any{"seats": picks})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/v1/showtimes/1/seats/confirm", token, map[string]any{"seats": picks[:1]})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/cart/products", token, map[string]any{"productId": 31, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[cart.View](t, rec)
	require.Len(t, view.Items, 3)

	rec = s.do(t, http.MethodPatch, "/v1/cart/lines/0", token, map[string]any{"quantity": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/cart/checkout", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decode[model.Sale](t, rec)
	assert.Equal(t, view.Totals.TotalCents, sale.TotalCents)
	assert.Equal(t, "ana@star.mx", sale.Identity)

	rec = s.do(t, http.MethodPost, "/v1/cart/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	tickets := decode[[]model.Sale](t, s.do(t, http.MethodGet, "/v1/my-tickets", token, nil))
	require.Len(t, tickets, 1)
	assert.Equal(t, sale.ID, tickets[0].ID)

	rec = s.do(t, http.MethodGet, "/v1/sales/"+sale.ID+"/receipt.pdf", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))

	rec = s.do(t, http.MethodGet, "/v1/sales/"+sale.ID+"/qr.png", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))

	other := s.login(t, "leo@star.mx", model.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/v1/sales/"+sale.ID+"/receipt.pdf", other, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/v1/sales/STAR-1/qr.png", other, nil).Code)
}

func TestRolesAndPOS(t *testing.T) {
	s := newTestServer(t)
	customer := s.login(t, "ana@star.mx", model.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/v1/pos/cart", customer, nil).Code)

	// a new login ends the previous session
	seller := s.login(t, "luis@star.mx", model.RoleSeller)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/v1/me", customer, nil).Code)

	rec := s.do(t, http.MethodPost, "/v1/pos/tickets", seller, map[string]any{"showtimeId": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/v1/pos/products", seller, map[string]any{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/v1/pos/checkout", seller, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decode[model.Sale](t, rec)
	assert.Equal(t, 1, sale.TicketCount())
	assert.Equal(t, 1, sale.ProductUnits())

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/v1/admin/dashboard", seller, nil).Code)

	admin := s.login(t, "root@star.mx", model.RoleAdmin)
	rec = s.do(t, http.MethodGet, "/v1/admin/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decode[struct {
		Sales ledger.Summary `json:"sales"`
	}](t, rec)
	assert.Equal(t, 1, dash.Sales.SalesCount)
	assert.Equal(t, sale.TotalCents, dash.Sales.RevenueCents)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/v1/admin/sales?date=yesterday", admin, nil).Code)
	rec = s.do(t, http.MethodGet, "/v1/admin/reports/products.pdf", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/v1/me", admin, nil).Code)
}

type unclearableCart struct {
	cart.Store
}

func (unclearableCart) Clear(context.Context) error { return errors.New("store unavailable") }

func TestCheckoutWithStaleCartStillSucceeds(t *testing.T) {
	s := newTestServerWithCart(t, func(c cart.Store) cart.Store { return unclearableCart{c} })
	token := s.login(t, "ana@star.mx", model.RoleCustomer)

	rec := s.do(t, http.MethodPost, "/v1/cart/products", token, map[string]any{"productId": 31, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/v1/cart/checkout", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Warning"), "cart not cleared")
	sale := decode[model.Sale](t, rec)
	assert.NotEmpty(t, sale.ID)

	tickets := decode[[]model.Sale](t, s.do(t, http.MethodGet, "/v1/my-tickets", token, nil))
	require.Len(t, tickets, 1)
	assert.Equal(t, sale.ID, tickets[0].ID)
}
