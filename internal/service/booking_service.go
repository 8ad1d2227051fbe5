// Package service holds the booking use cases that sit between the HTTP
// handlers and the stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinebook/internal/booking"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/payment"
	"github.com/iliyamo/cinebook/internal/queue"
	"github.com/iliyamo/cinebook/internal/seating"
)

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrSeatLimit     = errors.New("seat limit reached")
)

// PaymentError reports the invalid payment fields of a request.
type PaymentError struct {
	Fields payment.FieldErrors
}

func (e *PaymentError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, string(f))
	}
	return "invalid payment details: " + strings.Join(names, ", ")
}

// BookingStore is the persistence the service needs.
type BookingStore interface {
	Create(ctx context.Context, b model.Booking) (model.Booking, error)
	ListForUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	GetByIDForUser(ctx context.Context, id string, userID uint64) (model.Booking, error)
	CancelForUser(ctx context.Context, id string, userID uint64) (model.Booking, error)
}

// MovieFinder looks a movie up; nil means it does not exist.
type MovieFinder interface {
	GetByID(ctx context.Context, id string) *model.Movie
}

// CreateBookingRequest is the body of a booking request.  Card fields
// are only checked for credit card payments and are never stored.
type CreateBookingRequest struct {
	MovieID       string              `json:"movie_id"`
	SeatIDs       []string            `json:"seat_ids"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	payment.Input
}

// BookingService creates, lists and cancels bookings.
type BookingService struct {
	store     BookingStore
	movies    MovieFinder
	publisher Publisher
	log       *zap.Logger
	now       func() time.Time
}

// NewBookingService wires the service.  A nil publisher drops events.
func NewBookingService(store BookingStore, movies MovieFinder, pub Publisher, log *zap.Logger) *BookingService {
	if pub == nil {
		pub = NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{
		store:     store,
		movies:    movies,
		publisher: pub,
		log:       log.Named("booking"),
		now:       time.Now,
	}
}

// Create books the requested seats for userID.  Seat type and price are
// derived from the seat ids.  The stored booking is returned and a
// confirmation event is published; a publish failure is logged only.
func (s *BookingService) Create(ctx context.Context, userID uint64, req CreateBookingRequest) (model.Booking, error) {
	if !req.PaymentMethod.Valid() {
		return model.Booking{}, booking.ErrInvalidMethod
	}
	if len(req.SeatIDs) == 0 {
		return model.Booking{}, booking.ErrNoSeats
	}
	if len(req.SeatIDs) > seating.MaxSelectedSeats {
		return model.Booking{}, ErrSeatLimit
	}
	now := s.now()
	if req.PaymentMethod == model.PaymentCreditCard {
		if fe := payment.Validate(req.Input, now); len(fe) > 0 {
			return model.Booking{}, &PaymentError{Fields: fe}
		}
	}
	seats, err := booking.SnapshotsForIDs(req.SeatIDs)
	if err != nil {
		return model.Booking{}, err
	}
	movie := s.movies.GetByID(ctx, req.MovieID)
	if movie == nil {
		return model.Booking{}, ErrMovieNotFound
	}

	b, err := booking.Build(booking.Input{
		UserID:        userID,
		MovieID:       movie.ID,
		MovieTitle:    movie.Title,
		Poster:        movie.Poster,
		PaymentMethod: req.PaymentMethod,
		Seats:         seats,
		TotalPrice:    seating.SnapshotTotal(seats),
	}, now)
	if err != nil {
		return model.Booking{}, err
	}
	saved, err := s.store.Create(ctx, b)
	if err != nil {
		return model.Booking{}, fmt.Errorf("store booking: %w", err)
	}
	s.log.Info("booking confirmed",
		zap.String("booking_id", saved.ID),
		zap.Uint64("user_id", userID),
		zap.String("movie_id", saved.MovieID),
		zap.Int("seats", len(saved.Seats)),
		zap.Int64("total", saved.TotalPrice))
	s.publish(ctx, saved)
	return saved, nil
}

// ListForUser returns the user's bookings, newest first.
func (s *BookingService) ListForUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return s.store.ListForUser(ctx, userID)
}

// ListAll returns every booking, newest first.
func (s *BookingService) ListAll(ctx context.Context) ([]model.Booking, error) {
	return s.store.ListAll(ctx)
}

// Get returns one of the user's bookings.
func (s *BookingService) Get(ctx context.Context, userID uint64, id string) (model.Booking, error) {
	return s.store.GetByIDForUser(ctx, id, userID)
}

// Cancel moves one of the user's confirmed bookings to cancelled.
func (s *BookingService) Cancel(ctx context.Context, userID uint64, id string) (model.Booking, error) {
	b, err := s.store.CancelForUser(ctx, id, userID)
	if err != nil {
		return model.Booking{}, err
	}
	s.log.Info("booking cancelled", zap.String("booking_id", b.ID), zap.Uint64("user_id", userID))
	s.publish(ctx, b)
	return b, nil
}

func (s *BookingService) publish(ctx context.Context, b model.Booking) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.publisher.Publish(ctx, queue.NewBookingEvent(b, s.now())); err != nil {
		s.log.Warn("publish booking event failed", zap.String("booking_id", b.ID), zap.Error(err))
	}
}
