package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinebook/internal/booking"
	"github.com/iliyamo/cinebook/internal/client"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/payment"
	"github.com/iliyamo/cinebook/internal/seating"
	"github.com/iliyamo/cinebook/internal/state"
	"github.com/iliyamo/cinebook/internal/ticket"
)

var paymentChoices = []struct {
	label  string
	method model.PaymentMethod
}{
	{"Credit card", model.PaymentCreditCard},
	{"PayPal", model.PaymentPayPal},
}

func (a *App) loadMovie(cmd *cobra.Command, id string) (model.Movie, error) {
	a.State.Dispatch(state.MovieRequested{})
	ctx, cancel := a.ctx(cmd.Context())
	defer cancel()
	m, err := a.API.Movie(ctx, id)
	if err != nil {
		a.State.Dispatch(state.MovieFailed{Err: "Failed to fetch movie: " + err.Error()})
		return model.Movie{}, errReported
	}
	a.State.Dispatch(state.MovieLoaded{Movie: m})
	if m == nil {
		return model.Movie{}, fmt.Errorf("movie %q not found", id)
	}
	return *m, nil
}

func bookCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "book <movie-id>",
		Short: "Pick seats and pay for a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			m, err := app.loadMovie(cmd, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, okStyle.Render(m.Title))

			sel, err := app.pickSeats(app.Seats.Generate())
			if err != nil {
				return err
			}
			method, in, err := app.pay(sel)
			if err != nil {
				return err
			}
			ok, err := app.Prompt.Confirm(fmt.Sprintf("Pay %s for %d seat(s)", ticket.FormatPrice(sel.TotalPrice()), sel.Len()))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(app.Out, "Booking cancelled")
				return nil
			}

			app.State.Dispatch(state.CheckoutSubmitted{})
			ctx, cancel := app.ctx(cmd.Context())
			defer cancel()
			b, err := app.API.CreateBooking(ctx, client.BookingRequest{
				MovieID: m.ID, SeatIDs: sel.IDs(), PaymentMethod: method, Input: in,
			})
			if err != nil {
				app.printFieldErrors(err)
				app.State.Dispatch(state.CheckoutFailed{Err: "Booking failed: " + err.Error()})
				return errReported
			}
			app.State.Dispatch(state.CheckoutConfirmed{Booking: b})
			BookingSummary(app.Out, b)
			return nil
		},
	}
}

// pickSeats loops until the user confirms a non-empty selection.
func (a *App) pickSeats(layout model.SeatLayout) (*seating.Selection, error) {
	sel := seating.NewSelection(layout.Seats)
	for {
		fmt.Fprint(a.Out, SeatGrid(layout, sel))
		fmt.Fprintln(a.Out, SelectionSummary(sel))
		raw, err := a.Prompt.Input("Seats to toggle (e.g. E7 E8), clear or done", "", 0, nil)
		if err != nil {
			return nil, err
		}
		switch cmd := strings.ToLower(strings.TrimSpace(raw)); cmd {
		case "done", "":
			if sel.Len() == 0 {
				fmt.Fprintln(a.Out, errStyle.Render(booking.NoSeatsMessage))
				continue
			}
			return sel, nil
		case "clear":
			sel.Clear()
			continue
		}
		for _, id := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
			a.toggle(sel, strings.ToUpper(id))
		}
	}
}

func (a *App) toggle(sel *seating.Selection, id string) {
	if _, _, err := seating.ParseSeatID(id); err != nil {
		fmt.Fprintln(a.Out, errStyle.Render("Unknown seat "+id))
		return
	}
	switch sel.Toggle(id) {
	case seating.Ignored:
		fmt.Fprintln(a.Out, errStyle.Render("Seat "+id+" is not available"))
	case seating.LimitReached:
		fmt.Fprintln(a.Out, errStyle.Render(seating.LimitReachedMessage))
	}
}

// pay asks for the method and, for cards, the card fields with inline
// validation.
func (a *App) pay(sel *seating.Selection) (model.PaymentMethod, payment.Input, error) {
	labels := make([]string, len(paymentChoices))
	for i, c := range paymentChoices {
		labels[i] = c.label
	}
	i, err := a.Prompt.Select("Payment method ("+ticket.FormatPrice(sel.TotalPrice())+")", labels)
	if err != nil {
		return "", payment.Input{}, err
	}
	method := paymentChoices[i].method
	if method != model.PaymentCreditCard {
		return method, payment.Input{}, nil
	}

	form := payment.NewForm(a.Now)
	for {
		card, err := a.Prompt.Input("Card number", form.CardNumber(), 0, userError(payment.ValidateCardNumber))
		if err != nil {
			return "", payment.Input{}, err
		}
		form.SetCardNumber(card)
		exp, err := a.Prompt.Input("Expiration (MM/YY)", form.ExpirationDate(), 0, userError(func(s string) error {
			return payment.ValidateExpirationDate(s, a.Now())
		}))
		if err != nil {
			return "", payment.Input{}, err
		}
		form.SetExpirationDate(exp)
		cvv, err := a.Prompt.Input("CVV", "", '*', userError(payment.ValidateCVV))
		if err != nil {
			return "", payment.Input{}, err
		}
		form.SetCVV(cvv)

		if in, ok := form.Submit(); ok {
			return method, in, nil
		}
		for f, msg := range form.Errors() {
			fmt.Fprintln(a.Out, errStyle.Render(string(f)+": "+msg))
		}
	}
}

// userError turns validator errors into their display messages.
func userError(validate func(string) error) func(string) error {
	return func(s string) error {
		if err := validate(s); err != nil {
			return errors.New(payment.Message(err))
		}
		return nil
	}
}

func (a *App) printFieldErrors(err error) {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return
	}
	for f, msg := range apiErr.Fields {
		fmt.Fprintln(a.Out, errStyle.Render(f+": "+msg))
	}
}
