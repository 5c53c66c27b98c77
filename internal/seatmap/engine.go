package seatmap

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/model"
)

// Catalog is the read contract the engine needs from the catalog
// repository, plus the seat grid write-back.
type Catalog interface {
	ShowtimeByID(ctx context.Context, id uint64) (model.Showtime, error)
	MovieByID(ctx context.Context, id uint64) (model.Movie, error)
	RoomByID(ctx context.Context, id uint64) (model.Room, error)
	Seats(ctx context.Context, showtimeID uint64) ([]model.Seat, error)
	SaveSeats(ctx context.Context, showtimeID uint64, seats []model.Seat) error
}

// TicketSink receives the ticket lines of a confirmed selection.  The
// customer cart implements it.
type TicketSink interface {
	AddTickets(ctx context.Context, items []model.CartItem) error
}

// Engine loads seat maps and confirms selections against the store.
// Confirmations are serialized so two requests for the same seat cannot
// both see it available.
type Engine struct {
	mu      sync.Mutex
	catalog Catalog
	log     *zap.Logger
}

func NewEngine(catalog Catalog, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{catalog: catalog, log: log}
}

// LoadGrid returns the showtime's grid, or an empty slice when no grid is
// stored.  It does not check that the showtime exists.
func (e *Engine) LoadGrid(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	return e.catalog.Seats(ctx, showtimeID)
}

// SeatMap is everything needed to render one showtime's seat map.
type SeatMap struct {
	Showtime model.Showtime `json:"showtime"`
	Movie    model.Movie    `json:"movie"`
	Room     model.Room     `json:"room"`
	VipOnly  bool           `json:"vipOnly"`
	Seats    []model.Seat   `json:"seats"`
}

// Map resolves the showtime with its movie and room.  Missing records
// surface as the catalog's not-found error.  VIP-only mode comes from the
// room type.
func (e *Engine) Map(ctx context.Context, showtimeID uint64) (SeatMap, error) {
	st, err := e.catalog.ShowtimeByID(ctx, showtimeID)
	if err != nil {
		return SeatMap{}, fmt.Errorf("showtime %d: %w", showtimeID, err)
	}
	movie, err := e.catalog.MovieByID(ctx, st.MovieID)
	if err != nil {
		return SeatMap{}, fmt.Errorf("movie %d: %w", st.MovieID, err)
	}
	room, err := e.catalog.RoomByID(ctx, st.RoomID)
	if err != nil {
		return SeatMap{}, fmt.Errorf("room %d: %w", st.RoomID, err)
	}
	seats, err := e.LoadGrid(ctx, showtimeID)
	if err != nil {
		return SeatMap{}, err
	}
	return SeatMap{Showtime: st, Movie: movie, Room: room, VipOnly: room.IsVIP(), Seats: seats}, nil
}

// TicketName is the cart line name for a seat of a showtime.
func TicketName(movie model.Movie, room model.Room, seat string) string {
	return fmt.Sprintf("%s - %s - Asiento %s", movie.Title, room.Name, seat)
}

// Confirmation reports what a confirmed selection produced.
type Confirmation struct {
	ShowtimeID uint64           `json:"showtimeId"`
	Seats      []string         `json:"seats"`
	Items      []model.CartItem `json:"items"`
	TotalCents int64            `json:"totalCents"`
}

// Confirm validates the selection against the current grid, reserves the
// seats, persists the grid and then hands the ticket lines to sink.  The
// grid is written before the lines so a reserved seat always has a line;
// if the sink fails the previous grid is written back.
func (e *Engine) Confirm(ctx context.Context, showtimeID uint64, sel Selection, sink TicketSink) (Confirmation, error) {
	if len(sel) == 0 {
		return Confirmation{}, ErrEmptySelection
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	sm, err := e.Map(ctx, showtimeID)
	if err != nil {
		return Confirmation{}, err
	}
	seen := make(map[string]bool, len(sel))
	for _, l := range sel {
		row, num, err := ParseLabel(l)
		if err != nil {
			return Confirmation{}, err
		}
		if err := CheckSelectable(sm.Seats, row, num, sm.VipOnly); err != nil {
			return Confirmation{}, err
		}
		if seen[model.SeatLabel(row, num)] {
			return Confirmation{}, fmt.Errorf("%w: %s listed twice", ErrAlreadyReserved, l)
		}
		seen[model.SeatLabel(row, num)] = true
	}

	res, err := Commit(showtimeID, sm.Seats, sel, sm.Showtime.PriceCents, func(s model.Seat) string {
		return TicketName(sm.Movie, sm.Room, s.Label())
	})
	if err != nil {
		return Confirmation{}, err
	}
	if err := e.catalog.SaveSeats(ctx, showtimeID, res.Grid); err != nil {
		return Confirmation{}, fmt.Errorf("save seats: %w", err)
	}
	if err := sink.AddTickets(ctx, res.Items); err != nil {
		if rbErr := e.catalog.SaveSeats(ctx, showtimeID, sm.Seats); rbErr != nil {
			e.log.Error("seat grid rollback failed",
				zap.Uint64("showtime_id", showtimeID), zap.Error(rbErr))
		}
		return Confirmation{}, fmt.Errorf("add tickets: %w", err)
	}

	labels := make([]string, 0, len(res.Items))
	var total int64
	for _, it := range res.Items {
		labels = append(labels, it.Ticket.Seat)
		total += it.LineTotalCents()
	}
	e.log.Info("seats reserved",
		zap.Uint64("showtime_id", showtimeID),
		zap.Strings("seats", labels),
		zap.Bool("vip_only", sm.VipOnly),
	)
	return Confirmation{ShowtimeID: showtimeID, Seats: labels, Items: res.Items, TotalCents: total}, nil
}
