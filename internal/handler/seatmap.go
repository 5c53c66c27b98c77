package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/cart"
	"github.com/iliyamo/cinema-pos/internal/seatmap"
)

// SeatMapHandler serves seat maps and turns a customer's selection into
// cart lines.  The selection itself lives on the client and is sent with
// every request.
type SeatMapHandler struct {
	Engine  *seatmap.Engine
	Session *cart.Session
	Log     *zap.Logger
}

func NewSeatMapHandler(engine *seatmap.Engine, session *cart.Session, log *zap.Logger) *SeatMapHandler {
	if engine == nil || session == nil {
		panic("nil dependency passed to NewSeatMapHandler")
	}
	return &SeatMapHandler{Engine: engine, Session: session, Log: nopIfNil(log)}
}

// Seats handles GET /v1/showtimes/:id/seats.
func (h *SeatMapHandler) Seats(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid showtime id")
	}
	sm, err := h.Engine.Map(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, sm)
}

type selectRequest struct {
	Selection seatmap.Selection `json:"selection"`
	Row       string            `json:"row"`
	Number    int               `json:"number"`
}

// Select handles POST /v1/showtimes/:id/seats/select.  It toggles one
// seat in the posted selection.  On rejection the response is 400/409
// and carries the unchanged selection.
func (h *SeatMapHandler) Select(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid showtime id")
	}
	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	sm, err := h.Engine.Map(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	sel, err := seatmap.Select(sm.Seats, req.Selection, req.Row, req.Number, sm.VipOnly)
	if err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": err.Error(), "selection": sel})
	}
	if sel == nil {
		sel = seatmap.Selection{}
	}
	return c.JSON(http.StatusOK, echo.Map{"selection": sel})
}

type confirmRequest struct {
	Seats seatmap.Selection `json:"seats"`
}

// Confirm handles POST /v1/showtimes/:id/seats/confirm.  The seats are
// reserved and added to the customer cart as ticket lines.
func (h *SeatMapHandler) Confirm(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid showtime id")
	}
	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	conf, err := h.Engine.Confirm(ctx, id, req.Seats, h.Session)
	if err != nil {
		return fail(c, h.Log, err)
	}
	view, err := h.Session.View(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"confirmation": conf, "cart": view})
}
