package model

// Showtime represents a scheduled screening of a movie in a room at a
// fixed ticket price.  Showtimes are created once by catalog bootstrap
// and are immutable afterwards.
//
// Fields:
//  ID         – catalog identifier; also keys the seat grid.
//  MovieID    – movie being screened.
//  RoomID     – room where the screening takes place.
//  Date       – ISO date (YYYY-MM-DD).
//  Time       – local start time (HH:MM).
//  PriceCents – price of one seat in cents.
//  IsVipOnly  – mirrors the room type; the room is authoritative.
type Showtime struct {
	ID         uint64 `json:"id"`
	MovieID    uint64 `json:"movieId"`
	RoomID     uint64 `json:"roomId"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	PriceCents int64  `json:"priceCents"`
	IsVipOnly  bool   `json:"isVipOnly,omitempty"`
}
