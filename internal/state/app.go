package state

import (
	"slices"

	"github.com/iliyamo/cinebook/internal/model"
)

// List names one of the catalog lists.
type List string

const (
	ListAll        List = "all"
	ListPopular    List = "popular"
	ListNowShowing List = "now_showing"
	ListSearch     List = "search"
)

// Session is the signed-in user.
type Session struct {
	Token string
	User  model.Profile
}

// App is the whole client state.
type App struct {
	Session  Result[*Session]
	Lists    map[List]Result[[]model.Movie]
	Movie    Result[*model.Movie]
	Bookings Result[[]model.Booking]
	Checkout Result[model.Booking]
}

// NewApp returns the initial state.
func NewApp() App {
	return App{Lists: map[List]Result[[]model.Movie]{}}
}

// SignedIn reports whether a session is present.
func (a App) SignedIn() bool {
	return a.Session.Value != nil && a.Session.Value.Token != ""
}

// MovieList returns the current result for list.
func (a App) MovieList(l List) Result[[]model.Movie] { return a.Lists[l] }

// Action is anything Reduce understands.
type Action interface{ action() }

type (
	SessionRequested struct{}
	SessionLoaded    struct{ Session Session }
	SessionFailed    struct{ Err string }
	SignedOut        struct{}

	MoviesRequested struct{ List List }
	MoviesLoaded    struct {
		List   List
		Movies []model.Movie
	}
	MoviesFailed struct {
		List List
		Err  string
	}

	MovieRequested struct{}
	// MovieLoaded with a nil Movie means the movie does not exist.
	MovieLoaded struct{ Movie *model.Movie }
	MovieFailed struct{ Err string }

	BookingsRequested struct{}
	BookingsLoaded    struct{ Bookings []model.Booking }
	BookingsFailed    struct{ Err string }

	CheckoutSubmitted struct{}
	CheckoutConfirmed struct{ Booking model.Booking }
	CheckoutFailed    struct{ Err string }

	// BookingChanged replaces a booking in the list, e.g. after cancel.
	BookingChanged struct{ Booking model.Booking }
)

func (SessionRequested) action()  {}
func (SessionLoaded) action()     {}
func (SessionFailed) action()     {}
func (SignedOut) action()         {}
func (MoviesRequested) action()   {}
func (MoviesLoaded) action()      {}
func (MoviesFailed) action()      {}
func (MovieRequested) action()    {}
func (MovieLoaded) action()       {}
func (MovieFailed) action()       {}
func (BookingsRequested) action() {}
func (BookingsLoaded) action()    {}
func (BookingsFailed) action()    {}
func (CheckoutSubmitted) action() {}
func (CheckoutConfirmed) action() {}
func (CheckoutFailed) action()    {}
func (BookingChanged) action()    {}

// Reduce returns the state after act.  a is not modified.
func Reduce(a App, act Action) App {
	switch act := act.(type) {
	case SessionRequested:
		a.Session = a.Session.Start()
	case SessionLoaded:
		s := act.Session
		a.Session = a.Session.Succeed(&s)
	case SessionFailed:
		a.Session = a.Session.Fail(act.Err)
	case SignedOut:
		out := NewApp()
		out.Lists = a.Lists
		return out

	case MoviesRequested:
		a.Lists = withList(a.Lists, act.List, a.Lists[act.List].Start())
	case MoviesLoaded:
		movies := act.Movies
		if movies == nil {
			movies = []model.Movie{}
		}
		a.Lists = withList(a.Lists, act.List, a.Lists[act.List].Succeed(movies))
	case MoviesFailed:
		a.Lists = withList(a.Lists, act.List, a.Lists[act.List].Fail(act.Err))

	case MovieRequested:
		a.Movie = a.Movie.Start()
	case MovieLoaded:
		a.Movie = a.Movie.Succeed(act.Movie)
	case MovieFailed:
		a.Movie = a.Movie.Fail(act.Err)

	case BookingsRequested:
		a.Bookings = a.Bookings.Start()
	case BookingsLoaded:
		list := act.Bookings
		if list == nil {
			list = []model.Booking{}
		}
		a.Bookings = a.Bookings.Succeed(list)
	case BookingsFailed:
		a.Bookings = a.Bookings.Fail(act.Err)

	case CheckoutSubmitted:
		a.Checkout = a.Checkout.Start()
	case CheckoutConfirmed:
		a.Checkout = a.Checkout.Succeed(act.Booking)
		if a.Bookings.Ready() {
			a.Bookings.Value = append([]model.Booking{act.Booking}, a.Bookings.Value...)
		}
	case CheckoutFailed:
		a.Checkout = a.Checkout.Fail(act.Err)

	case BookingChanged:
		i := slices.IndexFunc(a.Bookings.Value, func(b model.Booking) bool { return b.ID == act.Booking.ID })
		if i >= 0 {
			list := slices.Clone(a.Bookings.Value)
			list[i] = act.Booking
			a.Bookings.Value = list
		}
	}
	return a
}

func withList(m map[List]Result[[]model.Movie], l List, r Result[[]model.Movie]) map[List]Result[[]model.Movie] {
	out := make(map[List]Result[[]model.Movie], len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[l] = r
	return out
}
