package model

import "strconv"

// SeatStatus is the persisted state of one seat for one showtime.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatReserved  SeatStatus = "reserved"
	SeatSold      SeatStatus = "sold"
	SeatVIP       SeatStatus = "vip"
)

// Grid dimensions shared by every room.
const (
	GridRows    = "ABCDEFGHIJ"
	GridColumns = 16
	GridSize    = len(GridRows) * GridColumns
)

// VIPRows lists the rows designated VIP in a VIP room.
var VIPRows = []string{"I", "J"}

// Seat is one cell of a showtime's seat grid.  Seats are identified by
// their row letter and number within the grid.
type Seat struct {
	Row    string     `json:"row"`
	Number int        `json:"number"`
	Status SeatStatus `json:"status"`
}

// Label returns the seat's display id, e.g. "F7".
func (s Seat) Label() string { return SeatLabel(s.Row, s.Number) }

// SeatLabel joins a row letter and a seat number.
func SeatLabel(row string, number int) string {
	return row + strconv.Itoa(number)
}
