package cli

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinebook/internal/client"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/state"
	"github.com/iliyamo/cinebook/internal/utils"
)

func validateEmail(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("Email is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return errors.New("Enter a valid email")
	}
	return nil
}

func validatePassword(s string) error {
	if err := utils.CheckPassword(s); err != nil {
		return errors.New("Password must be at least 6 characters")
	}
	return nil
}

func registerCmd(app *App) *cobra.Command {
	var email, name, phone string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email, err = app.ask("Email", email, 0, validateEmail); err != nil {
				return err
			}
			if name, err = app.ask("Name", name, 0, nil); err != nil {
				return err
			}
			if phone, err = app.ask("Phone", phone, 0, nil); err != nil {
				return err
			}
			password, err := app.Prompt.Input("Password", "", '*', validatePassword)
			if err != nil {
				return err
			}
			if _, err := app.Prompt.Input("Confirm password", "", '*', func(s string) error {
				if s != password {
					return errors.New("Passwords do not match")
				}
				return nil
			}); err != nil {
				return err
			}

			app.State.Dispatch(state.SessionRequested{})
			ctx, cancel := app.ctx(cmd.Context())
			defer cancel()
			p, token, err := app.Session.Register(ctx, email, password, name, phone)
			return app.signedIn(p, token, err)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	return cmd
}

func loginCmd(app *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email, err = app.ask("Email", email, 0, validateEmail); err != nil {
				return err
			}
			password, err := app.Prompt.Input("Password", "", '*', func(s string) error {
				if s == "" {
					return errors.New("Password is required")
				}
				return nil
			})
			if err != nil {
				return err
			}

			app.State.Dispatch(state.SessionRequested{})
			ctx, cancel := app.ctx(cmd.Context())
			defer cancel()
			p, token, err := app.Session.Login(ctx, email, password)
			return app.signedIn(p, token, err)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func logoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.State.State().SignedIn() {
				fmt.Fprintln(app.Out, "Not signed in")
				return nil
			}
			ctx, cancel := app.ctx(cmd.Context())
			defer cancel()
			err := app.Session.Logout(ctx)
			app.State.Dispatch(state.SignedOut{})
			if err != nil {
				fmt.Fprintln(app.Out, faint.Render("Signed out locally; server said: "+err.Error()))
				return nil
			}
			fmt.Fprintln(app.Out, "Signed out")
			return nil
		},
	}
}

func whoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := app.State.State().Session
			if s.Value == nil {
				fmt.Fprintln(app.Out, "Not signed in")
				return nil
			}
			u := s.Value.User
			fmt.Fprintf(app.Out, "%s <%s>\n", displayName(u), u.Email)
			if u.Phone != "" {
				fmt.Fprintln(app.Out, u.Phone)
			}
			return nil
		},
	}
}

// ask prompts unless a flag already supplied the value.
func (a *App) ask(label, current string, mask rune, validate func(string) error) (string, error) {
	if current != "" && (validate == nil || validate(current) == nil) {
		return current, nil
	}
	return a.Prompt.Input(label, current, mask, validate)
}

func (a *App) signedIn(p model.Profile, token string, err error) error {
	if err != nil {
		a.State.Dispatch(state.SessionFailed{Err: authMessage(err)})
		return errReported
	}
	a.State.Dispatch(state.SessionLoaded{Session: state.Session{Token: token, User: p}})
	fmt.Fprintln(a.Out, okStyle.Render("Signed in as "+displayName(p)))
	return nil
}

func authMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Authentication failed: " + err.Error()
}

func displayName(p model.Profile) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// requireSession fails with a hint when nobody is signed in.
func (a *App) requireSession() error {
	if !a.State.State().SignedIn() {
		return errors.New("not signed in; run `cinebook login` first")
	}
	return nil
}
