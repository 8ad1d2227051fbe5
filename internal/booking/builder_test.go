package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/payment"
	"github.com/iliyamo/cinebook/internal/seating"
)

var now = time.Date(2026, time.October, 16, 19, 30, 0, 0, time.UTC)

type noneOccupied struct{}

func (noneOccupied) Float64() float64 { return 0.99 }

func movie() model.Movie {
	return model.Movie{ID: "m-42", Title: "Arrival", Poster: "https://img.example/arrival.jpg"}
}

func TestEndToEnd_SelectPayCancel(t *testing.T) {
	layout := seating.NewGenerator(noneOccupied{}).Generate()
	sel := seating.NewSelection(layout.Seats)
	if r := sel.Toggle("A1"); r != seating.Added {
		t.Fatalf("toggle A1 = %v", r)
	}
	if r := sel.Toggle("E1"); r != seating.Added {
		t.Fatalf("toggle E1 = %v", r)
	}
	want := seating.RegularTariff + seating.VIPTariff
	if got := sel.TotalPrice(); got != want {
		t.Fatalf("TotalPrice() = %d, want %d", got, want)
	}

	form := payment.NewForm(func() time.Time { return now })
	form.SetCardNumber("4111 1111 1111 1111")
	form.SetExpirationDate("12/30")
	form.SetCVV("123")
	if _, ok := form.Submit(); !ok {
		t.Fatalf("payment rejected: %v", form.Errors())
	}

	b, err := FromSelection(sel, 7, movie(), model.PaymentCreditCard, now)
	if err != nil {
		t.Fatalf("FromSelection: %v", err)
	}
	if b.Status != model.BookingConfirmed {
		t.Errorf("status = %s, want confirmed", b.Status)
	}
	if len(b.Seats) != 2 {
		t.Errorf("seats = %d, want 2", len(b.Seats))
	}
	if b.TotalPrice != want {
		t.Errorf("TotalPrice = %d, want %d", b.TotalPrice, want)
	}
	if !b.BookedDate.Equal(now) || !b.CreatedAt.Equal(now) {
		t.Errorf("timestamps = %v/%v, want %v", b.BookedDate, b.CreatedAt, now)
	}
	if b.ID != "" {
		t.Errorf("builder must not assign an id, got %q", b.ID)
	}

	c, err := Cancel(b)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if c.Status != model.BookingCancelled {
		t.Errorf("status after cancel = %s", c.Status)
	}
	if c.TotalPrice != b.TotalPrice || len(c.Seats) != len(b.Seats) {
		t.Errorf("cancel changed seats or total: %+v", c)
	}
	for i := range b.Seats {
		if c.Seats[i] != b.Seats[i] {
			t.Errorf("seat %d changed: %+v -> %+v", i, b.Seats[i], c.Seats[i])
		}
	}
}

func TestBuild_Rejects(t *testing.T) {
	a1, _ := seating.SeatForID("A1")
	snap := model.SeatInfo{SeatID: a1.ID, Row: a1.Row, Number: a1.Number, Type: a1.Type, Price: a1.Price}
	base := Input{UserID: 1, MovieID: "m", PaymentMethod: model.PaymentPayPal, Seats: []model.SeatInfo{snap}, TotalPrice: a1.Price}

	tests := []struct {
		name   string
		mutate func(*Input)
		want   error
	}{
		{"no user", func(in *Input) { in.UserID = 0 }, ErrMissingUser},
		{"no movie", func(in *Input) { in.MovieID = " " }, ErrMissingMovie},
		{"bad method", func(in *Input) { in.PaymentMethod = "cash" }, ErrInvalidMethod},
		{"no seats", func(in *Input) { in.Seats = nil; in.TotalPrice = 0 }, ErrNoSeats},
		{"wrong total", func(in *Input) { in.TotalPrice = 1 }, ErrTotalMismatch},
		{"duplicate", func(in *Input) { in.Seats = []model.SeatInfo{snap, snap}; in.TotalPrice = 2 * snap.Price }, ErrDuplicateSeat},
		{"tampered price", func(in *Input) {
			s := snap
			s.Price = 1
			in.Seats = []model.SeatInfo{s}
			in.TotalPrice = 1
		}, ErrInvalidSeatPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if _, err := Build(in, now); !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Build(base, now); err != nil {
		t.Fatalf("base input should build: %v", err)
	}
}

func TestBuild_TooManySeats(t *testing.T) {
	ids := []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9"}
	snaps, err := SnapshotsForIDs(ids)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Build(Input{UserID: 1, MovieID: "m", PaymentMethod: model.PaymentPayPal, Seats: snaps, TotalPrice: seating.SnapshotTotal(snaps)}, now)
	if !errors.Is(err, ErrTooManySeats) {
		t.Fatalf("err = %v, want ErrTooManySeats", err)
	}
}

func TestSnapshotsForIDs(t *testing.T) {
	snaps, err := SnapshotsForIDs([]string{"e1", "A10", "A2"})
	if err != nil {
		t.Fatal(err)
	}
	got := []string{snaps[0].SeatID, snaps[1].SeatID, snaps[2].SeatID}
	want := []string{"A2", "A10", "E1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if snaps[2].Type != model.SeatVIP || snaps[2].Price != seating.VIPTariff {
		t.Errorf("E1 snapshot = %+v", snaps[2])
	}
	if _, err := SnapshotsForIDs([]string{"Z1"}); !errors.Is(err, seating.ErrInvalidSeatID) {
		t.Errorf("Z1: err = %v", err)
	}
}
