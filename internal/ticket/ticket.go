// Package ticket renders the e-ticket of a booking as a one-page PDF with
// a QR code that encodes the booking id.
package ticket

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iliyamo/cinebook/internal/model"
)

// QRSize is the edge of the QR image in pixels.
const QRSize = 300

// ErrNotPrintable is returned for bookings that no longer admit anyone.
var ErrNotPrintable = errors.New("ticket is only available for confirmed bookings")

// Holder identifies who the ticket was issued to.
type Holder struct {
	Name  string
	Email string
}

// QRPayload is the text scanned at the door.
func QRPayload(b model.Booking) string { return "cinebook:booking:" + b.ID }

// QRCodePNG encodes text as a PNG QR code with medium error correction.
func QRCodePNG(text string, size int) ([]byte, error) {
	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generate qr: %w", err)
	}
	png, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// FormatPrice renders whole currency units with thousands separators,
// e.g. "150,000 VND".
func FormatPrice(v int64) string {
	return message.NewPrinter(language.English).Sprintf("%d VND", v)
}

// Render builds the PDF for a confirmed booking.
func Render(b model.Booking, h Holder) ([]byte, error) {
	if b.Status != model.BookingConfirmed {
		return nil, ErrNotPrintable
	}
	png, err := QRCodePNG(QRPayload(b), QRSize)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Cinebook ticket "+b.ID, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, tr(b.MovieTitle), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Booking "+b.ID, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	name := "qr_" + b.ID
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	const qrMM = 70.0
	pageW, _ := pdf.GetPageSize()
	pdf.ImageOptions(name, (pageW-qrMM)/2, pdf.GetY(), qrMM, qrMM, false, opts, 0, "")
	pdf.Ln(qrMM + 6)

	seats := make([]string, len(b.Seats))
	for i, s := range b.Seats {
		label := s.SeatID
		if s.Type == model.SeatVIP {
			label += " (VIP)"
		}
		seats[i] = label
	}
	rows := [][2]string{
		{"Guest", tr(strings.TrimSpace(h.Name + " " + angle(h.Email)))},
		{"Seats", strings.Join(seats, ", ")},
		{"Total", FormatPrice(b.TotalPrice)},
		{"Payment", paymentLabel(b.PaymentMethod)},
		{"Booked", b.BookedDate.UTC().Format("2 Jan 2006 15:04 MST")},
	}
	for _, r := range rows {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(30, 8, r[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 8, r[1], "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func angle(email string) string {
	if email == "" {
		return ""
	}
	return "<" + email + ">"
}

func paymentLabel(m model.PaymentMethod) string {
	switch m {
	case model.PaymentCreditCard:
		return "Credit card"
	case model.PaymentPayPal:
		return "PayPal"
	}
	return "-"
}
