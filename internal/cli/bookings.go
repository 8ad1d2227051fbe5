package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinebook/internal/client"
	"github.com/iliyamo/cinebook/internal/state"
)

func bookingsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "List your bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			app.State.Dispatch(state.BookingsRequested{})
			ctx, cancel := app.ctx(cmd.Context())
			defer cancel()
			list, err := app.API.Bookings(ctx)
			if err != nil {
				app.State.Dispatch(state.BookingsFailed{Err: "Failed to fetch bookings: " + err.Error()})
				return errReported
			}
			s := app.State.Dispatch(state.BookingsLoaded{Bookings: list})
			BookingsTable(app.Out, s.Bookings.Value)
			return nil
		},
	}
}

func cancelCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel a confirmed booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			if !yes {
				ok, err := app.Prompt.Confirm("Cancel booking " + args[0])
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(app.Out, "Kept booking")
					return nil
				}
			}
			ctx, cancel := app.ctx(cmd.Context())
			defer cancel()
			b, err := app.API.CancelBooking(ctx, args[0])
			if client.IsNotFound(err) {
				return fmt.Errorf("booking %s not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("cancel failed: %w", err)
			}
			app.State.Dispatch(state.BookingChanged{Booking: b})
			fmt.Fprintln(app.Out, okStyle.Render("Booking "+b.ID+" "+string(b.Status)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func ticketCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "ticket <booking-id>",
		Short: "Download the PDF e-ticket of a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			ctx, cancel := app.ctx(cmd.Context())
			defer cancel()
			pdf, err := app.API.Ticket(ctx, args[0])
			if err != nil {
				return fmt.Errorf("download ticket: %w", err)
			}
			if out == "" {
				out = "ticket-" + args[0] + ".pdf"
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "Saved "+out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file")
	return cmd
}
