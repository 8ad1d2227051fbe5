// Package booking assembles booking records from a confirmed seat
// selection and governs their status after creation.  Nothing here does
// I/O; the result of Build is handed to the booking store.
package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/seating"
)

var (
	ErrNoSeats          = errors.New("no seats selected")
	ErrTooManySeats     = errors.New("seat limit exceeded")
	ErrDuplicateSeat    = errors.New("duplicate seat")
	ErrTotalMismatch    = errors.New("total price does not match seats")
	ErrInvalidMethod    = errors.New("unsupported payment method")
	ErrMissingUser      = errors.New("user is required")
	ErrMissingMovie     = errors.New("movie is required")
	ErrInvalidSeatPrice = errors.New("seat price does not match its type")
)

// NoSeatsMessage is shown when payment is attempted with nothing selected.
const NoSeatsMessage = "Please select at least one seat"

// Input is everything needed to build a booking.
type Input struct {
	UserID        uint64
	MovieID       string
	MovieTitle    string
	Poster        string
	PaymentMethod model.PaymentMethod
	Seats         []model.SeatInfo
	TotalPrice    int64
}

// Build validates in and returns a confirmed booking stamped with now.
// The ID is left empty for the store to assign.  Seats are copied so the
// caller may reuse its slice.
func Build(in Input, now time.Time) (model.Booking, error) {
	if in.UserID == 0 {
		return model.Booking{}, ErrMissingUser
	}
	if strings.TrimSpace(in.MovieID) == "" {
		return model.Booking{}, ErrMissingMovie
	}
	if !in.PaymentMethod.Valid() {
		return model.Booking{}, fmt.Errorf("%w: %q", ErrInvalidMethod, in.PaymentMethod)
	}
	if len(in.Seats) == 0 {
		return model.Booking{}, ErrNoSeats
	}
	if len(in.Seats) > seating.MaxSelectedSeats {
		return model.Booking{}, ErrTooManySeats
	}
	seen := make(map[string]struct{}, len(in.Seats))
	for _, s := range in.Seats {
		if _, dup := seen[s.SeatID]; dup {
			return model.Booking{}, fmt.Errorf("%w: %s", ErrDuplicateSeat, s.SeatID)
		}
		seen[s.SeatID] = struct{}{}
		if s.Price != seating.PriceFor(s.Type) {
			return model.Booking{}, fmt.Errorf("%w: %s", ErrInvalidSeatPrice, s.SeatID)
		}
	}
	if sum := seating.SnapshotTotal(in.Seats); sum != in.TotalPrice {
		return model.Booking{}, fmt.Errorf("%w: got %d, seats sum to %d", ErrTotalMismatch, in.TotalPrice, sum)
	}

	seats := make([]model.SeatInfo, len(in.Seats))
	copy(seats, in.Seats)
	now = now.UTC()
	return model.Booking{
		UserID:        in.UserID,
		MovieID:       in.MovieID,
		MovieTitle:    in.MovieTitle,
		Poster:        in.Poster,
		Seats:         seats,
		TotalPrice:    in.TotalPrice,
		PaymentMethod: in.PaymentMethod,
		Status:        model.BookingConfirmed,
		BookedDate:    now,
		CreatedAt:     now,
	}, nil
}

// FromSelection builds a booking from the current selection, taking the
// total from the selection itself.
func FromSelection(sel *seating.Selection, userID uint64, movie model.Movie, method model.PaymentMethod, now time.Time) (model.Booking, error) {
	return Build(Input{
		UserID:        userID,
		MovieID:       movie.ID,
		MovieTitle:    movie.Title,
		Poster:        movie.Poster,
		PaymentMethod: method,
		Seats:         sel.ToSeatInfoList(),
		TotalPrice:    sel.TotalPrice(),
	}, now)
}

// SnapshotsForIDs resolves seat ids into snapshots using the fixed row
// layout.  Prices come from the row, never from the caller.  The result is
// in display order.
func SnapshotsForIDs(ids []string) ([]model.SeatInfo, error) {
	seats := make([]model.Seat, 0, len(ids))
	for _, id := range ids {
		s, err := seating.SeatForID(id)
		if err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	seating.SortSeats(seats)
	out := make([]model.SeatInfo, len(seats))
	for i, s := range seats {
		out[i] = model.SeatInfo{SeatID: s.ID, Row: s.Row, Number: s.Number, Type: s.Type, Price: s.Price}
	}
	return out, nil
}
