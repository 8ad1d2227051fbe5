package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinebook/internal/booking"
	"github.com/iliyamo/cinebook/internal/middleware"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/seating"
	"github.com/iliyamo/cinebook/internal/service"
	"github.com/iliyamo/cinebook/internal/ticket"
)

// Bookings is implemented by *service.BookingService.
type Bookings interface {
	Create(ctx context.Context, userID uint64, req service.CreateBookingRequest) (model.Booking, error)
	ListForUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	Get(ctx context.Context, userID uint64, id string) (model.Booking, error)
	Cancel(ctx context.Context, userID uint64, id string) (model.Booking, error)
}

// ProfileFinder resolves the ticket holder.
type ProfileFinder interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// BookingHandler serves the customer booking endpoints and the admin
// listing.
type BookingHandler struct {
	Bookings Bookings
	Users    ProfileFinder
	Log      *zap.Logger
}

func NewBookingHandler(b Bookings, users ProfileFinder, log *zap.Logger) *BookingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHandler{Bookings: b, Users: users, Log: log.Named("bookings")}
}

// Create validates the selection and payment and stores a confirmed
// booking.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthorized(c)
	}
	var req service.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	b, err := h.Bookings.Create(ctx, uid, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// List returns the caller's bookings, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.Bookings.ListForUser(ctx, uid)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one of the caller's bookings.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	b, err := h.Bookings.Get(ctx, uid, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel moves a confirmed booking to cancelled.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	b, err := h.Bookings.Cancel(ctx, uid, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Ticket streams the PDF e-ticket of a confirmed booking.
func (h *BookingHandler) Ticket(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	b, err := h.Bookings.Get(ctx, uid, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	var holder ticket.Holder
	if u, err := h.Users.GetByID(ctx, uid); err == nil {
		holder = ticket.Holder{Name: u.Name, Email: u.Email}
	} else {
		h.Log.Warn("ticket holder lookup failed", zap.Uint64("user_id", uid), zap.Error(err))
	}
	pdf, err := ticket.Render(b, holder)
	if errors.Is(err, ticket.ErrNotPrintable) {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	if err != nil {
		h.Log.Error("render ticket", zap.String("booking_id", b.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render ticket failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="ticket-`+b.ID+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// AdminList returns every booking.
func (h *BookingHandler) AdminList(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// fail maps booking errors onto responses.
func (h *BookingHandler) fail(c echo.Context, err error) error {
	var pe *service.PaymentError
	switch {
	case errors.As(err, &pe):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":  "invalid payment details",
			"errors": pe.Fields.Messages(),
		})
	case errors.Is(err, booking.ErrNoSeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": booking.NoSeatsMessage})
	case errors.Is(err, service.ErrSeatLimit):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidMethod),
		errors.Is(err, booking.ErrDuplicateSeat),
		errors.Is(err, seating.ErrInvalidSeatID):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrMovieNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, booking.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	h.Log.Error("booking request failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
