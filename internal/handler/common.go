package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/auth"
	"github.com/iliyamo/cinema-pos/internal/cart"
	"github.com/iliyamo/cinema-pos/internal/ledger"
	"github.com/iliyamo/cinema-pos/internal/middleware"
	"github.com/iliyamo/cinema-pos/internal/model"
	"github.com/iliyamo/cinema-pos/internal/repository"
	"github.com/iliyamo/cinema-pos/internal/seatmap"
)

var errForbidden = errors.New("forbidden")

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// parseIndex reads a zero-based cart line index.
func parseIndex(c echo.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	return i, err == nil
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// statusFor maps domain errors onto HTTP statuses.  User mistakes are 4xx;
// anything unrecognised is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, seatmap.ErrSeatUnavailable), errors.Is(err, seatmap.ErrAlreadyReserved),
		errors.Is(err, ledger.ErrDuplicateSale):
		return http.StatusConflict
	case cart.IsValidation(err), seatmap.IsValidation(err), errors.Is(err, seatmap.ErrEmptySelection),
		errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, ledger.ErrSaleNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// fail writes err as {"error": ...}.  Internal errors are logged and
// their text is not exposed.
func fail(c echo.Context, log *zap.Logger, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", zap.String("route", c.Path()), zap.Error(err))
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// mustUser returns the profile stored by the auth middleware.  Routes
// using it are always mounted behind JWTAuth.
func mustUser(c echo.Context) (model.UserProfile, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return model.UserProfile{}, auth.ErrNoSession
	}
	return u, nil
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
