// Package queue defines the booking events exchanged over RabbitMQ and
// the consumer that records them.
package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/cinebook/internal/model"
)

// Queue names.  Each event kind has its own durable queue and is
// published on the default exchange.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingEvent is published when a booking is created or cancelled.  It
// carries enough for downstream consumers to log or notify without
// reading the booking store.
type BookingEvent struct {
	BookingID     string   `json:"booking_id"`
	UserID        uint64   `json:"user_id"`
	MovieID       string   `json:"movie_id"`
	MovieTitle    string   `json:"movie_title"`
	Seats         []string `json:"seats"`
	TotalPrice    int64    `json:"total_price"`
	PaymentMethod string   `json:"payment_method"`
	Status        string   `json:"status"`
	OccurredAt    string   `json:"occurred_at"`
}

// NewBookingEvent snapshots b at time at.
func NewBookingEvent(b model.Booking, at time.Time) BookingEvent {
	seats := make([]string, len(b.Seats))
	for i, s := range b.Seats {
		seats[i] = s.SeatID
	}
	return BookingEvent{
		BookingID:     b.ID,
		UserID:        b.UserID,
		MovieID:       b.MovieID,
		MovieTitle:    b.MovieTitle,
		Seats:         seats,
		TotalPrice:    b.TotalPrice,
		PaymentMethod: string(b.PaymentMethod),
		Status:        string(b.Status),
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
}

// QueueFor returns the queue an event belongs on.
func QueueFor(ev BookingEvent) string {
	if ev.Status == string(model.BookingCancelled) {
		return BookingCancelledQueue
	}
	return BookingConfirmedQueue
}

// LogLine renders ev as one line of the booking log.
func LogLine(ev BookingEvent) string {
	verb := "confirmed"
	if ev.Status == string(model.BookingCancelled) {
		verb = "cancelled"
	}
	return fmt.Sprintf("[%s] Booking %s | booking_id=%s | user_id=%d | movie=%q | method=%s | total=%d | seats=[%s]\n",
		ev.OccurredAt, verb, ev.BookingID, ev.UserID, ev.MovieTitle, ev.PaymentMethod, ev.TotalPrice, strings.Join(ev.Seats, ","))
}
