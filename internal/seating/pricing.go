package seating

import "github.com/iliyamo/cinebook/internal/model"

// Tariffs in whole currency units (VND).
const (
	RegularTariff int64 = 50000
	VIPTariff     int64 = 100000
)

// PriceFor returns the tariff of a seat type.  Unknown types cost nothing
// so that a corrupt seat can never inflate a total.
func PriceFor(t model.SeatType) int64 {
	switch t {
	case model.SeatRegular:
		return RegularTariff
	case model.SeatVIP:
		return VIPTariff
	}
	return 0
}

// Total prices seats by their type.
func Total(seats []model.Seat) int64 {
	var sum int64
	for _, s := range seats {
		sum += PriceFor(s.Type)
	}
	return sum
}

// StoredTotal sums the price already resolved on each seat.  For seats
// produced by this package it always equals Total.
func StoredTotal(seats []model.Seat) int64 {
	var sum int64
	for _, s := range seats {
		sum += s.Price
	}
	return sum
}

// SnapshotTotal sums the prices of booking seat snapshots.
func SnapshotTotal(infos []model.SeatInfo) int64 {
	var sum int64
	for _, s := range infos {
		sum += s.Price
	}
	return sum
}
