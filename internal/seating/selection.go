package seating

import (
	"sort"

	"github.com/iliyamo/cinebook/internal/model"
)

// MaxSelectedSeats bounds how many seats one booking may hold.
const MaxSelectedSeats = 8

// LimitReachedMessage is shown when a toggle would exceed the bound.
const LimitReachedMessage = "You can only select up to 8 seats"

// ToggleResult reports what Toggle did.  None of the outcomes is an error:
// occupied seats and the selection bound are ordinary UI conditions.
type ToggleResult int

const (
	Ignored ToggleResult = iota
	Added
	Removed
	LimitReached
)

func (r ToggleResult) String() string {
	switch r {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case LimitReached:
		return "limit_reached"
	}
	return "ignored"
}

// Selection is the set of seats a user has picked from one grid.  It is
// per-view state and not safe for concurrent use.
type Selection struct {
	grid     map[string]model.Seat
	selected map[string]struct{}
}

// NewSelection starts an empty selection over the given grid.
func NewSelection(seats []model.Seat) *Selection {
	s := &Selection{selected: make(map[string]struct{})}
	s.SetGrid(seats)
	return s
}

// SetGrid replaces the grid.  Selected seats that are missing from the new
// grid or no longer available are dropped.
func (s *Selection) SetGrid(seats []model.Seat) {
	s.grid = make(map[string]model.Seat, len(seats))
	for _, seat := range seats {
		s.grid[seat.ID] = seat
	}
	for id := range s.selected {
		if seat, ok := s.grid[id]; !ok || seat.Status == model.SeatOccupied {
			delete(s.selected, id)
		}
	}
}

// Toggle adds or removes a seat.  Occupied and unknown seats are ignored;
// adding beyond MaxSelectedSeats is refused and the selection is left as
// it was.
func (s *Selection) Toggle(id string) ToggleResult {
	seat, ok := s.grid[id]
	if !ok || seat.Status == model.SeatOccupied {
		return Ignored
	}
	if _, picked := s.selected[id]; picked {
		delete(s.selected, id)
		return Removed
	}
	if len(s.selected) >= MaxSelectedSeats {
		return LimitReached
	}
	s.selected[id] = struct{}{}
	return Added
}

// Len returns the number of selected seats.
func (s *Selection) Len() int { return len(s.selected) }

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// Clear empties the selection.
func (s *Selection) Clear() { s.selected = make(map[string]struct{}) }

// StatusOf returns the status to render for a seat of the grid.
func (s *Selection) StatusOf(id string) model.SeatStatus {
	seat, ok := s.grid[id]
	if !ok || seat.Status == model.SeatOccupied {
		return model.SeatOccupied
	}
	if s.Contains(id) {
		return model.SeatSelected
	}
	return model.SeatAvailable
}

// Seats returns the selected seats in display order.
func (s *Selection) Seats() []model.Seat {
	out := make([]model.Seat, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, s.grid[id])
	}
	SortSeats(out)
	return out
}

// IDs returns the selected seat identifiers in display order.
func (s *Selection) IDs() []string {
	seats := s.Seats()
	ids := make([]string, len(seats))
	for i, seat := range seats {
		ids[i] = seat.ID
	}
	return ids
}

// TotalPrice sums the stored prices of the selected seats.  It reads the
// current grid on every call.
func (s *Selection) TotalPrice() int64 {
	var sum int64
	for id := range s.selected {
		sum += s.grid[id].Price
	}
	return sum
}

// ToSeatInfoList snapshots the selection for a booking.
func (s *Selection) ToSeatInfoList() []model.SeatInfo {
	seats := s.Seats()
	out := make([]model.SeatInfo, len(seats))
	for i, seat := range seats {
		out[i] = model.SeatInfo{
			SeatID: seat.ID,
			Row:    seat.Row,
			Number: seat.Number,
			Type:   seat.Type,
			Price:  seat.Price,
		}
	}
	return out
}

// SortSeats orders seats by row label, then by number, so that A2 sorts
// before A10.
func SortSeats(seats []model.Seat) {
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Row != seats[j].Row {
			return seats[i].Row < seats[j].Row
		}
		return seats[i].Number < seats[j].Number
	})
}
