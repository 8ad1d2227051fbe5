package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/seating"
	"github.com/iliyamo/cinebook/internal/ticket"
)

var (
	seatAvailable = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	seatVIP       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	seatOccupied  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	seatSelected  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("63")).Bold(true)
	screenStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	faint         = lipgloss.NewStyle().Faint(true)
)

// Seat tokens.  Colour is dropped on terminals without colour support, so
// every state also has its own glyph.
const (
	tokenAvailable = "[]"
	tokenVIP       = "<>"
	tokenOccupied  = "XX"
	tokenSelected  = "##"
)

// SeatGrid draws the layout with the screen on top, one line per row.
func SeatGrid(layout model.SeatLayout, sel *seating.Selection) string {
	var b strings.Builder
	width := 0
	for _, r := range layout.Rows {
		width = max(width, len(r.Seats)*3-1)
	}
	b.WriteString("  ")
	b.WriteString(screenStyle.Render(center("SCREEN", width)))
	b.WriteString("\n\n")

	for _, row := range layout.Rows {
		b.WriteString(row.Row + " ")
		for i, seat := range row.Seats {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(seatCell(seat, sel))
		}
		b.WriteString(" " + row.Row + "\n")
	}

	b.WriteString("  ")
	for n := 1; n <= len(firstRow(layout).Seats); n++ {
		fmt.Fprintf(&b, "%-3d", n)
	}
	b.WriteString("\n\n")
	b.WriteString(faint.Render(fmt.Sprintf(
		"Legend: %s regular %s • %s vip %s • %s occupied • %s selected",
		tokenAvailable, ticket.FormatPrice(seating.RegularTariff),
		tokenVIP, ticket.FormatPrice(seating.VIPTariff),
		tokenOccupied, tokenSelected)))
	b.WriteString("\n")
	return b.String()
}

func seatCell(seat model.Seat, sel *seating.Selection) string {
	status := seat.Status
	if sel != nil {
		status = sel.StatusOf(seat.ID)
	}
	switch {
	case status == model.SeatSelected:
		return seatSelected.Render(tokenSelected)
	case status == model.SeatOccupied:
		return seatOccupied.Render(tokenOccupied)
	case seat.Type == model.SeatVIP:
		return seatVIP.Render(tokenVIP)
	}
	return seatAvailable.Render(tokenAvailable)
}

func firstRow(layout model.SeatLayout) model.SeatRow {
	if len(layout.Rows) == 0 {
		return model.SeatRow{}
	}
	return layout.Rows[0]
}

func center(s string, width int) string {
	if width <= len(s) {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

// SelectionSummary lists the picked seats and the running total.
func SelectionSummary(sel *seating.Selection) string {
	if sel.Len() == 0 {
		return faint.Render("No seats selected")
	}
	return fmt.Sprintf("Selected %d/%d: %s  Total: %s",
		sel.Len(), seating.MaxSelectedSeats, strings.Join(sel.IDs(), ", "), ticket.FormatPrice(sel.TotalPrice()))
}

// MoviesTable writes movies as a table.
func MoviesTable(w io.Writer, movies []model.Movie) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Title", "Rating", "Release", "Genres", "Min"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 32},
		{Number: 3, Align: text.AlignRight},
		{Number: 5, WidthMax: 24},
		{Number: 6, Align: text.AlignRight},
	})
	for _, m := range movies {
		t.AppendRow(table.Row{m.ID, m.Title, fmt.Sprintf("%.1f", m.Rating), m.ReleaseDate, strings.Join(m.Genres, ", "), m.Duration})
	}
	if len(movies) == 0 {
		t.AppendRow(table.Row{"", "No movies found"})
	}
	t.Render()
}

// MovieDetail writes one movie.
func MovieDetail(w io.Writer, m model.Movie) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(m.Title))
	fmt.Fprintln(w, faint.Render(fmt.Sprintf("%s • %d min • %s • ★ %.1f", m.ReleaseDate, m.Duration, m.Language, m.Rating)))
	if len(m.Genres) > 0 {
		fmt.Fprintln(w, strings.Join(m.Genres, " / "))
	}
	if m.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, lipgloss.NewStyle().Width(72).Render(m.Description))
	}
}

// BookingsTable writes bookings, newest first as received.
func BookingsTable(w io.Writer, bookings []model.Booking) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Booking", "Movie", "Seats", "Total", "Payment", "Status", "Booked"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 28},
		{Number: 4, Align: text.AlignRight},
	})
	for _, b := range bookings {
		t.AppendRow(table.Row{
			b.ID, b.MovieTitle, seatList(b.Seats), ticket.FormatPrice(b.TotalPrice),
			b.PaymentMethod, b.Status, b.BookedDate.Local().Format("2006-01-02 15:04"),
		})
	}
	if len(bookings) == 0 {
		t.AppendRow(table.Row{"", "No bookings yet"})
	}
	t.Style().Options.SeparateRows = true
	t.Render()
}

// BookingSummary writes the confirmation of a new booking.
func BookingSummary(w io.Writer, b model.Booking) {
	fmt.Fprintln(w, okStyle.Render("Booking "+string(b.Status)))
	fmt.Fprintf(w, "  ID:      %s\n", b.ID)
	fmt.Fprintf(w, "  Movie:   %s\n", b.MovieTitle)
	fmt.Fprintf(w, "  Seats:   %s\n", seatList(b.Seats))
	fmt.Fprintf(w, "  Total:   %s\n", ticket.FormatPrice(b.TotalPrice))
	fmt.Fprintf(w, "  Payment: %s\n", b.PaymentMethod)
}

func seatList(seats []model.SeatInfo) string {
	ids := make([]string, len(seats))
	for i, s := range seats {
		ids[i] = s.SeatID
	}
	return strings.Join(ids, ", ")
}
