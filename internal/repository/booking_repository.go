package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinebook/internal/booking"
	"github.com/iliyamo/cinebook/internal/model"
)

// BookingRepo is the booking store.  A booking row is written once and
// afterwards only its status changes; rows are never deleted.  Seat
// snapshots live in a JSON column.
type BookingRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

const bookingColumns = "id, user_id, movie_id, movie_title, poster, seats, total_price, payment_method, status, booked_date, created_at"

// Create assigns the booking an id and creation time and stores it.
func (r *BookingRepo) Create(ctx context.Context, b model.Booking) (model.Booking, error) {
	if b.Seats == nil {
		b.Seats = []model.SeatInfo{}
	}
	seats, err := json.Marshal(b.Seats)
	if err != nil {
		return model.Booking{}, err
	}
	b.ID = uuid.NewString()
	b.CreatedAt = r.now().Truncate(time.Second)
	if b.BookedDate.IsZero() {
		b.BookedDate = b.CreatedAt
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO bookings ("+bookingColumns+") VALUES (?,?,?,?,?,?,?,?,?,?,?)",
		b.ID, b.UserID, b.MovieID, b.MovieTitle, b.Poster, seats, b.TotalPrice,
		string(b.PaymentMethod), string(b.Status), b.BookedDate, b.CreatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// ListForUser returns the user's bookings, newest first.
func (r *BookingRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.list(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id=? ORDER BY created_at DESC, id", userID)
}

// ListAll returns every booking, newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY created_at DESC, id")
}

// GetByIDForUser returns a booking owned by userID.  Bookings of other
// users are reported as ErrNotFound.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, id string, userID uint64) (model.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? AND user_id=? LIMIT 1", id, userID))
}

// SetStatus overwrites the status of a booking.  It does not enforce the
// status machine; see CancelForUser for the user-facing path.
func (r *BookingRepo) SetStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	res, err := r.db.ExecContext(ctx, "UPDATE bookings SET status=? WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CancelForUser moves a confirmed booking owned by userID to cancelled.
// The row is locked while the transition is checked.  Any other current
// status yields booking.ErrInvalidTransition.
func (r *BookingRepo) CancelForUser(ctx context.Context, id string, userID uint64) (model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? AND user_id=? LIMIT 1 FOR UPDATE", id, userID))
	if err != nil {
		return model.Booking{}, err
	}
	cancelled, err := booking.Cancel(current)
	if err != nil {
		return current, err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE bookings SET status=? WHERE id=?", string(cancelled.Status), id); err != nil {
		return model.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, err
	}
	return cancelled, nil
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanBooking reads one row.  Rows written before seats, total and
// payment method were recorded come back with an empty seat list, a zero
// total and no method.
func scanBooking(s scanner) (model.Booking, error) {
	var (
		b      model.Booking
		seats  []byte
		total  sql.NullInt64
		method sql.NullString
		status string
	)
	err := s.Scan(&b.ID, &b.UserID, &b.MovieID, &b.MovieTitle, &b.Poster, &seats, &total, &method, &status, &b.BookedDate, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}
	b.Seats = []model.SeatInfo{}
	if len(seats) > 0 {
		if err := json.Unmarshal(seats, &b.Seats); err != nil {
			return model.Booking{}, fmt.Errorf("booking %s seats: %w", b.ID, err)
		}
		if b.Seats == nil {
			b.Seats = []model.SeatInfo{}
		}
	}
	b.TotalPrice = total.Int64
	b.PaymentMethod = model.PaymentMethod(method.String)
	b.Status = model.BookingStatus(status)
	return b, nil
}
