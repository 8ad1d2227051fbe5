package booking

import (
	"errors"
	"fmt"

	"github.com/iliyamo/cinebook/internal/model"
)

// ErrInvalidTransition is returned for any status change other than
// confirmed to cancelled.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// CanTransition reports whether a booking in from may move to to.
// Completion happens outside this service, so the only allowed move is
// a user cancelling a confirmed booking.
func CanTransition(from, to model.BookingStatus) bool {
	return from == model.BookingConfirmed && to == model.BookingCancelled
}

// Transition checks the move and returns the new status.
func Transition(from, to model.BookingStatus) (model.BookingStatus, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return to, nil
}

// Cancel returns a copy of b in the cancelled state.  Seats and total are
// left as they were.
func Cancel(b model.Booking) (model.Booking, error) {
	st, err := Transition(b.Status, model.BookingCancelled)
	if err != nil {
		return b, err
	}
	out := b
	out.Seats = append([]model.SeatInfo(nil), b.Seats...)
	out.Status = st
	return out, nil
}
