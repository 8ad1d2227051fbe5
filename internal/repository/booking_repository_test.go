package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/iliyamo/cinebook/internal/booking"
	"github.com/iliyamo/cinebook/internal/model"
)

var bookingCols = []string{"id", "user_id", "movie_id", "movie_title", "poster", "seats", "total_price", "payment_method", "status", "booked_date", "created_at"}

const seatsJSON = `[{"seat_id":"A1","row":"A","number":1,"type":"regular","price":50000},{"seat_id":"E1","row":"E","number":1,"type":"vip","price":100000}]`

func newBookingRepo(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	db, mock := newMock(t)
	r := NewBookingRepo(db)
	r.now = func() time.Time { return fixedNow }
	return r, mock
}

func TestBookingRepo_Create(t *testing.T) {
	r, mock := newBookingRepo(t)
	booked := fixedNow.Add(-time.Second)
	in := model.Booking{
		UserID: 7, MovieID: "m1", MovieTitle: "Inception", Poster: "p.jpg",
		Seats:         []model.SeatInfo{{SeatID: "A1", Row: "A", Number: 1, Type: model.SeatRegular, Price: 50000}},
		TotalPrice:    50000,
		PaymentMethod: model.PaymentCreditCard,
		Status:        model.BookingConfirmed,
		BookedDate:    booked,
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings (" + bookingColumns + ")")).
		WithArgs(sqlmock.AnyArg(), uint64(7), "m1", "Inception", "p.jpg", sqlmock.AnyArg(), int64(50000),
			"credit_card", "confirmed", booked, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := r.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uuid.Parse(got.ID); err != nil {
		t.Errorf("id %q is not a uuid", got.ID)
	}
	if !got.CreatedAt.Equal(fixedNow) || !got.BookedDate.Equal(booked) {
		t.Errorf("timestamps = %v / %v", got.CreatedAt, got.BookedDate)
	}
}

func TestBookingRepo_ListForUser_LegacyRows(t *testing.T) {
	r, mock := newBookingRepo(t)
	rows := sqlmock.NewRows(bookingCols).
		AddRow("b2", 7, "m1", "Inception", "p.jpg", []byte(seatsJSON), 150000, "paypal", "confirmed", fixedNow, fixedNow).
		AddRow("b1", 7, "m2", "Old", "", nil, nil, nil, "completed", fixedNow.Add(-time.Hour), fixedNow.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE user_id=? ORDER BY created_at DESC")).
		WithArgs(uint64(7)).
		WillReturnRows(rows)

	got, err := r.ListForUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if len(got[0].Seats) != 2 || got[0].TotalPrice != 150000 || got[0].PaymentMethod != model.PaymentPayPal {
		t.Errorf("first = %+v", got[0])
	}
	legacy := got[1]
	if legacy.Seats == nil || len(legacy.Seats) != 0 || legacy.TotalPrice != 0 || legacy.PaymentMethod != "" {
		t.Errorf("legacy defaults = %+v", legacy)
	}
}

func TestBookingRepo_GetByIDForUser_NotFound(t *testing.T) {
	r, mock := newBookingRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id=? AND user_id=?")).
		WithArgs("nope", uint64(7)).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	if _, err := r.GetByIDForUser(context.Background(), "nope", 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBookingRepo_SetStatus(t *testing.T) {
	r, mock := newBookingRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status=? WHERE id=?")).
		WithArgs("completed", "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status=? WHERE id=?")).
		WithArgs("cancelled", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if err := r.SetStatus(ctx, "b1", model.BookingCompleted); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := r.SetStatus(ctx, "missing", model.BookingCancelled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: err = %v", err)
	}
	if err := r.SetStatus(ctx, "b1", "archived"); err == nil {
		t.Fatal("unknown status accepted")
	}
}

func TestBookingRepo_CancelForUser(t *testing.T) {
	r, mock := newBookingRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("b1", uint64(7)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow("b1", 7, "m1", "Inception", "p.jpg", []byte(seatsJSON), 150000, "credit_card", "confirmed", fixedNow, fixedNow))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status=? WHERE id=?")).
		WithArgs("cancelled", "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := r.CancelForUser(context.Background(), "b1", 7)
	if err != nil {
		t.Fatalf("CancelForUser: %v", err)
	}
	if got.Status != model.BookingCancelled || got.TotalPrice != 150000 || len(got.Seats) != 2 {
		t.Errorf("cancelled = %+v", got)
	}
}

func TestBookingRepo_CancelForUser_AlreadyCancelled(t *testing.T) {
	r, mock := newBookingRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("b1", uint64(7)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow("b1", 7, "m1", "Inception", "p.jpg", []byte(seatsJSON), 150000, "credit_card", "cancelled", fixedNow, fixedNow))
	mock.ExpectRollback()

	if _, err := r.CancelForUser(context.Background(), "b1", 7); !errors.Is(err, booking.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}
