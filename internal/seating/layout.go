// Package seating generates the seat grid of a showing, tracks the seats a
// user has picked and prices them.
//
// Occupancy is drawn at random each time a grid is generated.  There is no
// authoritative seat-level reservation behind it, so two users can pick
// the same nominal seat; callers must not treat an available seat as held.
package seating

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/iliyamo/cinebook/internal/model"
)

// Default grid dimensions.
const (
	SeatsPerRow         = 10
	OccupiedProbability = 0.30
)

// DefaultRows are the row labels of every showing.  The first half is
// regular seating, the second half VIP.
var DefaultRows = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// ErrInvalidSeatID is returned when a seat identifier does not name a seat
// of the default grid.
var ErrInvalidSeatID = errors.New("invalid seat id")

// RandomSource supplies uniform draws in [0, 1).  *rand.Rand satisfies it;
// tests pass a fixed sequence.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Generator builds seat grids.  The zero value is not usable; use
// NewGenerator.
type Generator struct {
	Rows          []string
	SeatsPerRow   int
	OccupiedRatio float64
	Rand          RandomSource
}

// NewGenerator returns a generator for the default 8x10 grid.  A nil src
// uses the process-wide random source.
func NewGenerator(src RandomSource) *Generator {
	if src == nil {
		src = globalSource{}
	}
	return &Generator{
		Rows:          DefaultRows,
		SeatsPerRow:   SeatsPerRow,
		OccupiedRatio: OccupiedProbability,
		Rand:          src,
	}
}

// TypeForRow returns the seat type of row within rows.  Rows in the upper
// half of the range are VIP.  Rows that are not part of the range are
// regular.
func TypeForRow(rows []string, row string) model.SeatType {
	for i, r := range rows {
		if r == row {
			if i >= len(rows)/2 {
				return model.SeatVIP
			}
			return model.SeatRegular
		}
	}
	return model.SeatRegular
}

// Generate produces a fresh grid.  Each seat is independently occupied
// with probability OccupiedRatio.
func (g *Generator) Generate() model.SeatLayout {
	seats := make([]model.Seat, 0, len(g.Rows)*g.SeatsPerRow)
	available := 0
	for _, row := range g.Rows {
		typ := TypeForRow(g.Rows, row)
		for n := 1; n <= g.SeatsPerRow; n++ {
			status := model.SeatAvailable
			if g.Rand.Float64() < g.OccupiedRatio {
				status = model.SeatOccupied
			} else {
				available++
			}
			seats = append(seats, model.Seat{
				ID:     SeatID(row, n),
				Row:    row,
				Number: n,
				Status: status,
				Type:   typ,
				Price:  PriceFor(typ),
			})
		}
	}
	return model.SeatLayout{
		Seats:          seats,
		Rows:           GroupByRow(seats),
		TotalSeats:     len(seats),
		AvailableSeats: available,
	}
}

// GroupByRow groups seats by row label.  Rows are sorted by label and
// seats within a row by number.
func GroupByRow(seats []model.Seat) []model.SeatRow {
	grouped := make(map[string][]model.Seat)
	for _, s := range seats {
		grouped[s.Row] = append(grouped[s.Row], s)
	}
	labels := maps.Keys(grouped)
	sort.Strings(labels)
	out := make([]model.SeatRow, 0, len(labels))
	for _, label := range labels {
		rowSeats := grouped[label]
		sort.Slice(rowSeats, func(i, j int) bool { return rowSeats[i].Number < rowSeats[j].Number })
		out = append(out, model.SeatRow{Row: label, Seats: rowSeats})
	}
	return out
}

// SeatID composes a seat identifier.
func SeatID(row string, number int) string { return row + strconv.Itoa(number) }

// ParseSeatID splits an identifier such as "E10" into its row and number
// and checks that it names a seat of the default grid.
func ParseSeatID(id string) (string, int, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if len(id) < 2 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidSeatID, id)
	}
	row := id[:1]
	n, err := strconv.Atoi(id[1:])
	if err != nil || n < 1 || n > SeatsPerRow {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidSeatID, id)
	}
	for _, r := range DefaultRows {
		if r == row {
			return row, n, nil
		}
	}
	return "", 0, fmt.Errorf("%w: %q", ErrInvalidSeatID, id)
}

// SeatForID rebuilds an available seat of the default grid from its id.
// Type and price follow from the row, so a server can price a selection
// without trusting client-supplied amounts.
func SeatForID(id string) (model.Seat, error) {
	row, n, err := ParseSeatID(id)
	if err != nil {
		return model.Seat{}, err
	}
	typ := TypeForRow(DefaultRows, row)
	return model.Seat{
		ID:     SeatID(row, n),
		Row:    row,
		Number: n,
		Status: model.SeatAvailable,
		Type:   typ,
		Price:  PriceFor(typ),
	}, nil
}
