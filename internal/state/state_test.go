package state

import (
	"testing"

	"github.com/iliyamo/cinebook/internal/model"
)

func TestResultLifecycle(t *testing.T) {
	var r Result[int]
	if r.Status != Idle {
		t.Fatalf("zero value status = %v", r.Status)
	}
	r = r.Start()
	if !r.Loading() {
		t.Fatal("not loading after Start")
	}
	r = r.Succeed(3)
	if !r.Ready() || r.Value != 3 {
		t.Fatalf("after Succeed: %+v", r)
	}
	r = r.Start().Fail("boom")
	if r.Status != Failure || r.Err != "boom" || r.Value != 3 {
		t.Fatalf("after Fail: %+v", r)
	}
	if r = r.Start(); r.Err != "" || !r.Loading() {
		t.Fatalf("Start must clear the error: %+v", r)
	}
}

func TestReduceMovies(t *testing.T) {
	a := NewApp()
	a = Reduce(a, MoviesRequested{List: ListPopular})
	if !a.MovieList(ListPopular).Loading() {
		t.Fatal("popular not loading")
	}
	if a.MovieList(ListAll).Status != Idle {
		t.Fatal("unrelated list changed")
	}
	a = Reduce(a, MoviesLoaded{List: ListPopular, Movies: nil})
	got := a.MovieList(ListPopular)
	if !got.Ready() || got.Value == nil || len(got.Value) != 0 {
		t.Fatalf("popular = %+v", got)
	}
	a = Reduce(a, MoviesFailed{List: ListPopular, Err: "Failed to fetch movies"})
	if a.MovieList(ListPopular).Err == "" {
		t.Fatal("error not recorded")
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := Reduce(NewApp(), MoviesLoaded{List: ListAll, Movies: []model.Movie{{ID: "1"}}})
	_ = Reduce(before, MoviesRequested{List: ListAll})
	if !before.MovieList(ListAll).Ready() {
		t.Fatal("reduce mutated its input map")
	}
}

func TestReduceBookings(t *testing.T) {
	b1 := model.Booking{ID: "b1", Status: model.BookingConfirmed}
	a := Reduce(NewApp(), BookingsLoaded{Bookings: []model.Booking{b1}})

	b2 := model.Booking{ID: "b2", Status: model.BookingConfirmed}
	a = Reduce(a, CheckoutSubmitted{})
	if !a.Checkout.Loading() {
		t.Fatal("checkout not pending")
	}
	a = Reduce(a, CheckoutConfirmed{Booking: b2})
	if a.Checkout.Value.ID != "b2" || len(a.Bookings.Value) != 2 || a.Bookings.Value[0].ID != "b2" {
		t.Fatalf("after checkout: %+v", a.Bookings.Value)
	}

	prev := a
	cancelled := b1
	cancelled.Status = model.BookingCancelled
	a = Reduce(a, BookingChanged{Booking: cancelled})
	if a.Bookings.Value[1].Status != model.BookingCancelled {
		t.Fatalf("booking not replaced: %+v", a.Bookings.Value)
	}
	if prev.Bookings.Value[1].Status != model.BookingConfirmed {
		t.Fatal("previous state was modified")
	}
}

func TestReduceSession(t *testing.T) {
	a := Reduce(NewApp(), SessionRequested{})
	a = Reduce(a, SessionLoaded{Session: Session{Token: "t", User: model.Profile{ID: 1}}})
	if !a.SignedIn() {
		t.Fatal("not signed in")
	}
	a = Reduce(a, MoviesLoaded{List: ListAll, Movies: []model.Movie{{ID: "m"}}})
	a = Reduce(a, BookingsLoaded{Bookings: []model.Booking{{ID: "b"}}})
	a = Reduce(a, SignedOut{})
	if a.SignedIn() || a.Bookings.Status != Idle {
		t.Fatalf("sign out kept user data: %+v", a)
	}
	if !a.MovieList(ListAll).Ready() {
		t.Error("sign out should keep the public catalog")
	}
}

func TestStoreNotifies(t *testing.T) {
	s := NewStore()
	var seen []Status
	s.Subscribe(func(_, next App) { seen = append(seen, next.Movie.Status) })
	s.Dispatch(MovieRequested{})
	s.Dispatch(MovieLoaded{Movie: nil})
	if len(seen) != 2 || seen[0] != Pending || seen[1] != Success {
		t.Fatalf("seen = %v", seen)
	}
	if s.State().Movie.Value != nil {
		t.Error("missing movie should be a nil value")
	}
}
