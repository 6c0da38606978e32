package model

// Seat type values used by the theater seat-map topology.  EMPTY marks
// a gap in the layout (an aisle or a removed seat) that can never be
// booked.
const (
	SeatStandard = "STANDARD"
	SeatVIP      = "VIP"
	SeatCouple   = "COUPLE"
	SeatEmpty    = "EMPTY"
)

// SeatMapCell is one cell of a theater's seat-map topology.  Row labels
// are stored upper-case.  Theaters without topology rows fall back to
// capacity-only accounting.
type SeatMapCell struct {
	RowLabel   string `json:"row"`       // theater_seats.row_label
	SeatNumber uint32 `json:"number"`    // theater_seats.seat_number
	SeatType   string `json:"seat_type"` // theater_seats.seat_type
}
