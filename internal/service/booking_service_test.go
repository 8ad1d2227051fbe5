package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/cinebook/internal/booking"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/payment"
	"github.com/iliyamo/cinebook/internal/queue"
	"github.com/iliyamo/cinebook/internal/seating"
)

type memStore struct {
	bookings []model.Booking
	err      error
}

func (m *memStore) Create(_ context.Context, b model.Booking) (model.Booking, error) {
	if m.err != nil {
		return model.Booking{}, m.err
	}
	b.ID = "b-" + string(rune('0'+len(m.bookings)+1))
	m.bookings = append(m.bookings, b)
	return b, nil
}

func (m *memStore) ListForUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) ListAll(context.Context) ([]model.Booking, error) { return m.bookings, nil }

func (m *memStore) GetByIDForUser(_ context.Context, id string, userID uint64) (model.Booking, error) {
	for _, b := range m.bookings {
		if b.ID == id && b.UserID == userID {
			return b, nil
		}
	}
	return model.Booking{}, errors.New("not found")
}

func (m *memStore) CancelForUser(ctx context.Context, id string, userID uint64) (model.Booking, error) {
	b, err := m.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return b, err
	}
	c, err := booking.Cancel(b)
	if err != nil {
		return b, err
	}
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings[i] = c
		}
	}
	return c, nil
}

type movies map[string]model.Movie

func (m movies) GetByID(_ context.Context, id string) *model.Movie {
	if mv, ok := m[id]; ok {
		return &mv
	}
	return nil
}

type recorder struct {
	events []queue.BookingEvent
	err    error
}

func (r *recorder) Publish(_ context.Context, ev queue.BookingEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func newService(t *testing.T) (*BookingService, *memStore, *recorder) {
	t.Helper()
	store := &memStore{}
	rec := &recorder{}
	svc := NewBookingService(store, movies{"m1": {ID: "m1", Title: "Inception", Poster: "p.jpg"}}, rec, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC) }
	return svc, store, rec
}

func validCard() payment.Input {
	return payment.Input{CardNumber: "4111111111111111", ExpirationDate: "12/30", CVV: "123"}
}

func TestCreate_ConfirmsAndPublishes(t *testing.T) {
	svc, store, rec := newService(t)
	b, err := svc.Create(context.Background(), 5, CreateBookingRequest{
		MovieID: "m1", SeatIDs: []string{"E1", "a1"}, PaymentMethod: model.PaymentCreditCard, Input: validCard(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Status != model.BookingConfirmed || b.TotalPrice != seating.RegularTariff+seating.VIPTariff {
		t.Errorf("booking = %+v", b)
	}
	if b.Seats[0].SeatID != "A1" || b.Seats[1].SeatID != "E1" {
		t.Errorf("seats = %+v", b.Seats)
	}
	if b.MovieTitle != "Inception" || b.Poster != "p.jpg" {
		t.Errorf("movie fields = %q %q", b.MovieTitle, b.Poster)
	}
	if len(store.bookings) != 1 || len(rec.events) != 1 || rec.events[0].BookingID != b.ID {
		t.Errorf("store=%d events=%+v", len(store.bookings), rec.events)
	}
}

func TestCreate_Rejections(t *testing.T) {
	nine := []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9"}
	tests := []struct {
		name string
		req  CreateBookingRequest
		want error
	}{
		{"no seats", CreateBookingRequest{MovieID: "m1", PaymentMethod: model.PaymentPayPal}, booking.ErrNoSeats},
		{"too many", CreateBookingRequest{MovieID: "m1", SeatIDs: nine, PaymentMethod: model.PaymentPayPal}, ErrSeatLimit},
		{"bad method", CreateBookingRequest{MovieID: "m1", SeatIDs: []string{"A1"}, PaymentMethod: "cash"}, booking.ErrInvalidMethod},
		{"bad seat", CreateBookingRequest{MovieID: "m1", SeatIDs: []string{"Z9"}, PaymentMethod: model.PaymentPayPal}, seating.ErrInvalidSeatID},
		{"duplicate seat", CreateBookingRequest{MovieID: "m1", SeatIDs: []string{"A1", "a1"}, PaymentMethod: model.PaymentPayPal}, booking.ErrDuplicateSeat},
		{"unknown movie", CreateBookingRequest{MovieID: "m404", SeatIDs: []string{"A1"}, PaymentMethod: model.PaymentPayPal}, ErrMovieNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, rec := newService(t)
			if _, err := svc.Create(context.Background(), 5, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if len(store.bookings) != 0 || len(rec.events) != 0 {
				t.Error("rejected request must not store or publish")
			}
		})
	}
}

func TestCreate_PaymentFieldErrors(t *testing.T) {
	svc, store, _ := newService(t)
	_, err := svc.Create(context.Background(), 5, CreateBookingRequest{
		MovieID: "m1", SeatIDs: []string{"A1"}, PaymentMethod: model.PaymentCreditCard,
		Input: payment.Input{CardNumber: "411111111111", ExpirationDate: "01/20", CVV: "123"},
	})
	var pe *PaymentError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PaymentError", err)
	}
	if len(pe.Fields) != 2 || pe.Fields[payment.FieldCVV] != nil {
		t.Errorf("fields = %v", pe.Fields)
	}
	if len(store.bookings) != 0 {
		t.Error("booking stored despite invalid card")
	}

	if _, err := svc.Create(context.Background(), 5, CreateBookingRequest{
		MovieID: "m1", SeatIDs: []string{"A1"}, PaymentMethod: model.PaymentPayPal,
	}); err != nil {
		t.Fatalf("paypal without card fields: %v", err)
	}
}

func TestCreate_PublishFailureIsNotFatal(t *testing.T) {
	svc, store, rec := newService(t)
	rec.err = errors.New("broker down")
	if _, err := svc.Create(context.Background(), 5, CreateBookingRequest{
		MovieID: "m1", SeatIDs: []string{"A1"}, PaymentMethod: model.PaymentPayPal,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(store.bookings) != 1 {
		t.Error("booking not stored")
	}
}

func TestCancel(t *testing.T) {
	svc, _, rec := newService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, 5, CreateBookingRequest{MovieID: "m1", SeatIDs: []string{"A1", "E1"}, PaymentMethod: model.PaymentPayPal})
	if err != nil {
		t.Fatal(err)
	}
	c, err := svc.Cancel(ctx, 5, b.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if c.Status != model.BookingCancelled || c.TotalPrice != b.TotalPrice || len(c.Seats) != 2 {
		t.Errorf("cancelled = %+v", c)
	}
	if last := rec.events[len(rec.events)-1]; last.Status != "cancelled" {
		t.Errorf("last event = %+v", last)
	}
	if _, err := svc.Cancel(ctx, 5, b.ID); !errors.Is(err, booking.ErrInvalidTransition) {
		t.Errorf("second cancel err = %v", err)
	}
	if _, err := svc.Cancel(ctx, 6, b.ID); err == nil {
		t.Error("other user cancelled the booking")
	}
}
