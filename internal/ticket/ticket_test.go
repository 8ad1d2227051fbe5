package ticket

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/cinebook/internal/model"
)

func confirmed() model.Booking {
	return model.Booking{
		ID: "0b0e2c1e-2f7e-4a43-9d1a-6f1f7c7b9a10", UserID: 1, MovieID: "m1", MovieTitle: "Amélie",
		Seats: []model.SeatInfo{
			{SeatID: "A1", Row: "A", Number: 1, Type: model.SeatRegular, Price: 50000},
			{SeatID: "E1", Row: "E", Number: 1, Type: model.SeatVIP, Price: 100000},
		},
		TotalPrice: 150000, PaymentMethod: model.PaymentCreditCard, Status: model.BookingConfirmed,
		BookedDate: time.Date(2026, 10, 16, 19, 0, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	pdf, err := Render(confirmed(), Holder{Name: "Ann", Email: "ann@example.com"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", pdf[:8])
	}
}

func TestRender_OnlyConfirmed(t *testing.T) {
	b := confirmed()
	b.Status = model.BookingCancelled
	if _, err := Render(b, Holder{}); !errors.Is(err, ErrNotPrintable) {
		t.Fatalf("err = %v", err)
	}
}

func TestQRCodePNG(t *testing.T) {
	png, err := QRCodePNG(QRPayload(confirmed()), 128)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("not a PNG")
	}
}

func TestFormatPrice(t *testing.T) {
	tests := map[int64]string{0: "0 VND", 50000: "50,000 VND", 1500000: "1,500,000 VND"}
	for in, want := range tests {
		if got := FormatPrice(in); got != want {
			t.Errorf("FormatPrice(%d) = %q, want %q", in, got, want)
		}
	}
}
