package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// PaymentMethod is the only payment detail that is ever persisted.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentPayPal     PaymentMethod = "paypal"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool { return m == PaymentCreditCard || m == PaymentPayPal }

// Booking records a user's purchase of one or more seats for a movie.
// Movie title and poster are denormalized so that booking lists render
// without a catalog lookup.  TotalPrice is fixed at creation and equals
// the sum of the seat snapshot prices.
//
// Fields:
//  ID            – assigned by the booking store on creation.
//  UserID        – owner of the booking.
//  MovieID       – catalog movie id.
//  MovieTitle    – title at booking time.
//  Poster        – poster URL at booking time.
//  Seats         – seat snapshots.
//  TotalPrice    – whole currency units.
//  PaymentMethod – credit_card or paypal.
//  Status        – confirmed, cancelled or completed.
//  BookedDate    – when the booking was made.
//  CreatedAt     – when the record was stored.
type Booking struct {
	ID            string        `json:"id"`
	UserID        uint64        `json:"user_id"`
	MovieID       string        `json:"movie_id"`
	MovieTitle    string        `json:"movie_title"`
	Poster        string        `json:"poster"`
	Seats         []SeatInfo    `json:"seats"`
	TotalPrice    int64         `json:"total_price"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        BookingStatus `json:"status"`
	BookedDate    time.Time     `json:"booked_date"`
	CreatedAt     time.Time     `json:"created_at"`
}
