package model

// RoomType distinguishes regular screening rooms from VIP rooms.  A VIP
// room designates its last rows as VIP seats and restricts selection to
// them.
type RoomType string

const (
	RoomStandard RoomType = "standard"
	RoomVIP      RoomType = "vip"
)

// Room represents a screening room.
//
// Fields:
//  ID       – catalog identifier.
//  Name     – display name ("Sala 1", "Sala VIP").
//  Capacity – nominal seat count shown to staff.
//  Type     – standard or vip.
type Room struct {
	ID       uint64   `json:"id"`
	Name     string   `json:"name"`
	Capacity int      `json:"capacity"`
	Type     RoomType `json:"type"`
}

// IsVIP reports whether the room restricts selection to VIP seats.
func (r Room) IsVIP() bool { return r.Type == RoomVIP }
