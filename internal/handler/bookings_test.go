package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/iliyamo/cinebook/internal/booking"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/service"
)

// memBookings is an in-memory service.BookingStore.
type memBookings struct {
	list []model.Booking
}

func (m *memBookings) Create(_ context.Context, b model.Booking) (model.Booking, error) {
	b.ID = fmt.Sprintf("b%d", len(m.list)+1)
	m.list = append(m.list, b)
	return b, nil
}

func (m *memBookings) ListForUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range m.list {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) ListAll(context.Context) ([]model.Booking, error) { return m.list, nil }

func (m *memBookings) GetByIDForUser(_ context.Context, id string, userID uint64) (model.Booking, error) {
	for _, b := range m.list {
		if b.ID == id && b.UserID == userID {
			return b, nil
		}
	}
	return model.Booking{}, repository.ErrNotFound
}

func (m *memBookings) CancelForUser(ctx context.Context, id string, userID uint64) (model.Booking, error) {
	for i, b := range m.list {
		if b.ID == id && b.UserID == userID {
			next, err := booking.Cancel(b)
			if err != nil {
				return model.Booking{}, err
			}
			m.list[i] = next
			return next, nil
		}
	}
	return model.Booking{}, repository.ErrNotFound
}

type movieSet map[string]model.Movie

func (s movieSet) GetByID(_ context.Context, id string) *model.Movie {
	m, ok := s[id]
	if !ok {
		return nil
	}
	return &m
}

func newBookings() *BookingHandler {
	svc := service.NewBookingService(&memBookings{}, movieSet{"m1": {ID: "m1", Title: "Dune"}}, nil, nil)
	users := newFakeUsers()
	users.byID[7] = model.User{ID: 7, Email: "ann@example.com", Name: "Ann", Role: model.RoleCustomer, IsActive: true}
	return NewBookingHandler(svc, users, nil)
}

const cardBody = `,"payment_method":"credit_card","card_number":"4111 1111 1111 1111","expiration_date":"12/99","cvv":"123"}`

func TestBookingFlow(t *testing.T) {
	h := newBookings()

	rec := call(t, h.Create, http.MethodPost, "/v1/bookings", `{"movie_id":"m1","seat_ids":["E1","A1"]`+cardBody, 7)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d (%s)", rec.Code, rec.Body)
	}
	b := decode[model.Booking](t, rec)
	if b.TotalPrice != 150000 || len(b.Seats) != 2 || b.Status != model.BookingConfirmed || b.MovieTitle != "Dune" {
		t.Fatalf("booking = %+v", b)
	}

	if list := decode[[]model.Booking](t, call(t, h.List, http.MethodGet, "/v1/bookings", "", 7)); len(list) != 1 {
		t.Errorf("own list len = %d", len(list))
	}
	if list := decode[[]model.Booking](t, call(t, h.List, http.MethodGet, "/v1/bookings", "", 8)); len(list) != 0 {
		t.Errorf("other user sees %d bookings", len(list))
	}
	if rec := call(t, h.Get, http.MethodGet, "/", "", 8, "id", b.ID); rec.Code != http.StatusNotFound {
		t.Errorf("foreign get: status = %d", rec.Code)
	}

	rec = call(t, h.Ticket, http.MethodGet, "/", "", 7, "id", b.ID)
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("ticket: status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("ticket content type = %q", ct)
	}

	rec = call(t, h.Cancel, http.MethodPost, "/", "", 7, "id", b.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: status = %d", rec.Code)
	}
	got := decode[model.Booking](t, rec)
	if got.Status != model.BookingCancelled || got.TotalPrice != 150000 || len(got.Seats) != 2 {
		t.Errorf("cancelled = %+v", got)
	}
	if rec := call(t, h.Cancel, http.MethodPost, "/", "", 7, "id", b.ID); rec.Code != http.StatusConflict {
		t.Errorf("cancel twice: status = %d", rec.Code)
	}
	if rec := call(t, h.Ticket, http.MethodGet, "/", "", 7, "id", b.ID); rec.Code != http.StatusConflict {
		t.Errorf("ticket after cancel: status = %d", rec.Code)
	}
	if list := decode[[]model.Booking](t, call(t, h.AdminList, http.MethodGet, "/v1/admin/bookings", "", 1)); len(list) != 1 {
		t.Errorf("admin list len = %d", len(list))
	}
}

func TestBookingCreateErrors(t *testing.T) {
	h := newBookings()
	tests := []struct {
		name string
		body string
		want int
	}{
		{"no seats", `{"movie_id":"m1","seat_ids":[]` + cardBody, http.StatusBadRequest},
		{"too many seats", `{"movie_id":"m1","seat_ids":["A1","A2","A3","A4","A5","A6","A7","A8","A9"]` + cardBody, http.StatusUnprocessableEntity},
		{"bad seat", `{"movie_id":"m1","seat_ids":["Z99"]` + cardBody, http.StatusBadRequest},
		{"unknown movie", `{"movie_id":"nope","seat_ids":["A1"]` + cardBody, http.StatusNotFound},
		{"bad method", `{"movie_id":"m1","seat_ids":["A1"],"payment_method":"cash"}`, http.StatusBadRequest},
		{"paypal skips card", `{"movie_id":"m1","seat_ids":["A1"],"payment_method":"paypal"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := call(t, h.Create, http.MethodPost, "/", tt.body, 7); rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestBookingCreate_PaymentFields(t *testing.T) {
	h := newBookings()
	body := `{"movie_id":"m1","seat_ids":["A1"],"payment_method":"credit_card","card_number":"4111","expiration_date":"13/30","cvv":""}`
	rec := call(t, h.Create, http.MethodPost, "/", body, 7)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[struct {
		Errors map[string]string `json:"errors"`
	}](t, rec)
	for _, f := range []string{"card_number", "expiration_date", "cvv"} {
		if resp.Errors[f] == "" {
			t.Errorf("missing message for %s: %v", f, resp.Errors)
		}
	}
}

func TestBookingNoSeatsMessage(t *testing.T) {
	h := newBookings()
	rec := call(t, h.Create, http.MethodPost, "/", `{"movie_id":"m1","payment_method":"paypal"}`, 7)
	if msg := decode[map[string]string](t, rec)["error"]; msg != booking.NoSeatsMessage {
		t.Errorf("error = %q", msg)
	}
}

type failingBookings struct{ Bookings }

func (failingBookings) ListForUser(context.Context, uint64) ([]model.Booking, error) {
	return nil, errors.New("db down")
}

func TestBookingList_StoreFailure(t *testing.T) {
	h := NewBookingHandler(failingBookings{}, newFakeUsers(), nil)
	if rec := call(t, h.List, http.MethodGet, "/", "", 7); rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}
