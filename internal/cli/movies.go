package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinebook/internal/state"
)

var listNames = map[string]state.List{
	"all":     state.ListAll,
	"popular": state.ListPopular,
	"now":     state.ListNowShowing,
}

func moviesCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:       "movies [popular|now|all]",
		Short:     "List movies",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"popular", "now", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "popular"
			if len(args) == 1 {
				name = strings.ToLower(args[0])
			}
			list, ok := listNames[name]
			if !ok {
				return fmt.Errorf("unknown list %q (popular, now or all)", name)
			}

			app.State.Dispatch(state.MoviesRequested{List: list})
			ctx, cancel := app.ctx(cmd.Context())
			defer cancel()
			movies, err := app.API.Movies(ctx, name, limit)
			if err != nil {
				app.State.Dispatch(state.MoviesFailed{List: list, Err: "Failed to fetch movies: " + err.Error()})
				return errReported
			}
			s := app.State.Dispatch(state.MoviesLoaded{List: list, Movies: movies})
			MoviesTable(app.Out, s.MovieList(list).Value)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of movies (popular and now)")
	return cmd
}

func searchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search movies by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			app.State.Dispatch(state.MoviesRequested{List: state.ListSearch})
			ctx, cancel := app.ctx(cmd.Context())
			defer cancel()
			movies, err := app.API.Search(ctx, q)
			if err != nil {
				app.State.Dispatch(state.MoviesFailed{List: state.ListSearch, Err: "Search failed: " + err.Error()})
				return errReported
			}
			s := app.State.Dispatch(state.MoviesLoaded{List: state.ListSearch, Movies: movies})
			MoviesTable(app.Out, s.MovieList(state.ListSearch).Value)
			return nil
		},
	}
}

func movieCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "movie <id>",
		Short: "Show movie details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.loadMovie(cmd, args[0])
			if err != nil {
				return err
			}
			MovieDetail(app.Out, m)
			return nil
		},
	}
}
