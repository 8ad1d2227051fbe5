package model

// SeatStatus is the availability of a seat within a single showing.
// Available and Occupied are assigned when the grid is generated;
// Selected is derived on the client from the current selection and is
// never persisted.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatSelected  SeatStatus = "selected"
	SeatOccupied  SeatStatus = "occupied"
)

// SeatType is the pricing class of a seat.
type SeatType string

const (
	SeatRegular SeatType = "regular"
	SeatVIP     SeatType = "vip"
)

// Valid reports whether t is one of the known seat types.
func (t SeatType) Valid() bool { return t == SeatRegular || t == SeatVIP }

// Seat describes one seat of a showing's grid.  A seat is identified by
// its row letter followed by its number (e.g. "E7").  Type follows from
// the row and Price follows from the type; both are stored on the seat so
// that renderers and snapshots do not need the pricing rules.
//
// Fields:
//  ID     – row label + seat number, unique within a showing.
//  Row    – single uppercase letter.
//  Number – 1-based position in the row.
//  Status – available or occupied (selected is derived).
//  Type   – regular or vip.
//  Price  – whole currency units, resolved from Type.
type Seat struct {
	ID     string     `json:"id"`
	Row    string     `json:"row"`
	Number int        `json:"number"`
	Status SeatStatus `json:"status"`
	Type   SeatType   `json:"type"`
	Price  int64      `json:"price"`
}

// SeatRow groups the seats of one row in seat-number order.
type SeatRow struct {
	Row   string `json:"row"`
	Seats []Seat `json:"seats"`
}

// SeatLayout is the full grid of a showing together with its rows and
// availability counters.
type SeatLayout struct {
	Seats          []Seat    `json:"-"`
	Rows           []SeatRow `json:"rows"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
}

// SeatInfo is the snapshot of a seat captured into a booking.  It is a
// copy, not a reference into the grid, because grids are regenerated
// every time a showing is opened.
type SeatInfo struct {
	SeatID string   `json:"seat_id"`
	Row    string   `json:"row"`
	Number int      `json:"number"`
	Type   SeatType `json:"type"`
	Price  int64    `json:"price"`
}
