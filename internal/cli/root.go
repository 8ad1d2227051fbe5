// Package cli is the cinebook terminal client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinebook/internal/client"
	"github.com/iliyamo/cinebook/internal/seating"
	"github.com/iliyamo/cinebook/internal/state"
)

// requestTimeout bounds every API call.
const requestTimeout = 15 * time.Second

// App is what the commands share.
type App struct {
	API     *client.Client
	Session *client.Session
	State   *state.Store
	Prompt  Prompter
	Seats   *seating.Generator
	Out     io.Writer
	Now     func() time.Time
}

func (a *App) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, requestTimeout)
}

// NewRootCmd builds the command tree.  When app is nil the persistent
// flags configure a terminal App before any command runs.
func NewRootCmd(app *App) *cobra.Command {
	var apiURL, storePath string
	if app == nil {
		app = &App{}
	}

	root := &cobra.Command{
		Use:           "cinebook",
		Short:         "Browse movies and book seats from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd.OutOrStdout(), apiURL, storePath)
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api", envOr("CINEBOOK_API", client.DefaultBaseURL), "API base URL")
	root.PersistentFlags().StringVar(&storePath, "store", "", "session file (default: user config dir)")

	root.AddCommand(
		registerCmd(app), loginCmd(app), logoutCmd(app), whoamiCmd(app),
		moviesCmd(app), searchCmd(app), movieCmd(app),
		bookCmd(app), bookingsCmd(app), cancelCmd(app), ticketCmd(app),
	)
	return root
}

// init fills whatever the caller did not provide.
func (a *App) init(out io.Writer, apiURL, storePath string) error {
	if a.Out == nil {
		a.Out = out
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.Prompt == nil {
		a.Prompt = terminalPrompter{}
	}
	if a.Seats == nil {
		a.Seats = seating.NewGenerator(nil)
	}
	if a.State == nil {
		a.State = state.NewStore()
		a.State.Subscribe(a.reportFailures)
	}
	if a.API == nil {
		a.API = client.New(apiURL, nil)
	}
	if a.Session == nil {
		if storePath == "" {
			p, err := client.DefaultStorePath()
			if err != nil {
				return err
			}
			storePath = p
		}
		a.Session = client.NewSession(a.API, client.NewFileStore(storePath))
	}
	p, token, err := a.Session.CurrentUser()
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	if p != nil {
		a.State.Dispatch(state.SessionLoaded{Session: state.Session{Token: token, User: *p}})
	}
	return nil
}

// reportFailures prints one line whenever a request moves to Failure.
func (a *App) reportFailures(prev, next state.App) {
	report := func(before, after state.Status, msg string) {
		if before != state.Failure && after == state.Failure {
			fmt.Fprintln(a.Out, errStyle.Render(msg))
		}
	}
	report(prev.Session.Status, next.Session.Status, next.Session.Err)
	report(prev.Movie.Status, next.Movie.Status, next.Movie.Err)
	report(prev.Bookings.Status, next.Bookings.Status, next.Bookings.Err)
	report(prev.Checkout.Status, next.Checkout.Status, next.Checkout.Err)
	for l, r := range next.Lists {
		report(prev.Lists[l].Status, r.Status, r.Err)
	}
}

// errReported marks failures already printed through the state store.
var errReported = errors.New("request failed")

// Execute runs the client against os.Args and returns the exit code.
func Execute() int {
	err := NewRootCmd(nil).Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrAborted):
		return 130
	case !errors.Is(err, errReported):
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
	}
	return 1
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
