// Package seatmap owns seat selection for one showtime: which seats may be
// picked, the client-held selection, and the commit that turns a selection
// into reserved seats plus ticket lines.
//
// A seat moves available -> reserved (or vip -> reserved) only through
// Commit.  reserved and sold are terminal; there is no release path.
package seatmap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/cinema-pos/internal/model"
)

// Validation errors: the user picked something they may not pick.
var (
	ErrSeatNotFound    = errors.New("seat does not exist in this grid")
	ErrSeatUnavailable = errors.New("seat is already reserved or sold")
	ErrVipOnly         = errors.New("only VIP seats can be selected for this showtime")
)

// Invariant violations: a caller bug, never user input.
var (
	ErrEmptySelection  = errors.New("commit requires at least one selected seat")
	ErrAlreadyReserved = errors.New("seat is already reserved")
)

// IsValidation reports whether err is a user-facing rejection rather than
// a programming error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrSeatNotFound) || errors.Is(err, ErrSeatUnavailable) || errors.Is(err, ErrVipOnly)
}

// Selection is the ordered list of seat labels the user has picked but
// not yet confirmed.  It is never persisted.
type Selection []string

// Contains reports whether label is selected.
func (s Selection) Contains(label string) bool {
	for _, l := range s {
		if l == label {
			return true
		}
	}
	return false
}

// ToggleSelection adds the seat when absent and removes it when present.
// The input is not modified.
func ToggleSelection(sel Selection, row string, number int) Selection {
	label := model.SeatLabel(row, number)
	out := make(Selection, 0, len(sel)+1)
	found := false
	for _, l := range sel {
		if l == label {
			found = true
			continue
		}
		out = append(out, l)
	}
	if !found {
		out = append(out, label)
	}
	return out
}

// FindSeat locates a seat by row and number.
func FindSeat(grid []model.Seat, row string, number int) (model.Seat, int, bool) {
	for i, s := range grid {
		if s.Row == row && s.Number == number {
			return s, i, true
		}
	}
	return model.Seat{}, -1, false
}

// ParseLabel splits "F7" into ("F", 7).
func ParseLabel(label string) (string, int, error) {
	label = strings.TrimSpace(strings.ToUpper(label))
	if len(label) < 2 {
		return "", 0, fmt.Errorf("%w: %q", ErrSeatNotFound, label)
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrSeatNotFound, label)
	}
	return label[:1], n, nil
}

// IsSelectable is the single gating rule: the seat is neither reserved nor
// sold, and in VIP-only mode it must be a VIP seat.
func IsSelectable(grid []model.Seat, row string, number int, vipOnly bool) bool {
	return CheckSelectable(grid, row, number, vipOnly) == nil
}

// CheckSelectable is IsSelectable with the reason for a rejection.
func CheckSelectable(grid []model.Seat, row string, number int, vipOnly bool) error {
	seat, _, ok := FindSeat(grid, row, number)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSeatNotFound, model.SeatLabel(row, number))
	}
	switch seat.Status {
	case model.SeatReserved, model.SeatSold:
		return fmt.Errorf("%w: %s", ErrSeatUnavailable, seat.Label())
	}
	if vipOnly && seat.Status != model.SeatVIP {
		return fmt.Errorf("%w: %s", ErrVipOnly, seat.Label())
	}
	return nil
}

// Select toggles a seat after checking it.  Deselecting is always allowed;
// selecting a seat that fails CheckSelectable returns the rejection and
// the unchanged selection.
func Select(grid []model.Seat, sel Selection, row string, number int, vipOnly bool) (Selection, error) {
	if sel.Contains(model.SeatLabel(row, number)) {
		return ToggleSelection(sel, row, number), nil
	}
	if err := CheckSelectable(grid, row, number, vipOnly); err != nil {
		return sel, err
	}
	return ToggleSelection(sel, row, number), nil
}

// LabelFunc names the ticket line produced for a seat.
type LabelFunc func(seat model.Seat) string

// CommitResult is the outcome of a successful Commit.
type CommitResult struct {
	Grid  []model.Seat
	Items []model.CartItem
}

// Commit reserves every selected seat and yields one ticket line per seat
// at pricePerSeat.  It is all or nothing: an empty selection, an unknown
// seat, or a seat that is already reserved or sold (including a label
// listed twice) fails without touching the input grid.
func Commit(showtimeID uint64, grid []model.Seat, sel Selection, pricePerSeat int64, label LabelFunc) (CommitResult, error) {
	if len(sel) == 0 {
		return CommitResult{}, ErrEmptySelection
	}
	updated := make([]model.Seat, len(grid))
	copy(updated, grid)

	items := make([]model.CartItem, 0, len(sel))
	for _, l := range sel {
		row, num, err := ParseLabel(l)
		if err != nil {
			return CommitResult{}, err
		}
		seat, idx, ok := FindSeat(updated, row, num)
		if !ok {
			return CommitResult{}, fmt.Errorf("%w: %s", ErrSeatNotFound, l)
		}
		switch seat.Status {
		case model.SeatReserved, model.SeatSold:
			return CommitResult{}, fmt.Errorf("%w: %s", ErrAlreadyReserved, seat.Label())
		}
		updated[idx].Status = model.SeatReserved
		items = append(items, model.NewTicketItem(label(seat), pricePerSeat, showtimeID, seat.Label()))
	}
	return CommitResult{Grid: updated, Items: items}, nil
}
