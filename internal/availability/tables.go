// Package availability picks a free table for a party using an occupancy
// predictor, falling back to deterministic rules when no model is usable.
package availability

import "context"

// TableCount is the number of tables in the dining room, numbered 1..TableCount.
const TableCount = 20

// representativeGuests is the party size used when checking one specific table.
const representativeGuests = 2

// Features are the predictor inputs. Weekday is Monday=0 .. Sunday=6.
type Features struct {
	Table   int
	Guests  int
	Weekday int
	Hour    int
}

func (f Features) vector() [4]float64 {
	return [4]float64{float64(f.Table), float64(f.Guests), float64(f.Weekday), float64(f.Hour)}
}

// Predictor answers whether a table is occupied for the given inputs.
// Implementations must be safe for concurrent use.
type Predictor interface {
	IsOccupied(ctx context.Context, f Features) (bool, error)
}

// SizeClass groups tables by seating capacity.
type SizeClass int

const (
	Small SizeClass = iota
	Medium
	Large
)

func (c SizeClass) String() string {
	switch c {
	case Small:
		return "small"
	case Medium:
		return "medium"
	default:
		return "large"
	}
}

// ClassOf returns the size class of a table number.
func ClassOf(table int) SizeClass {
	switch {
	case table <= 8:
		return Small
	case table <= 15:
		return Medium
	default:
		return Large
	}
}

// PreferredClass returns the size class that best fits a party.
func PreferredClass(guests int) SizeClass {
	switch {
	case guests <= 2:
		return Small
	case guests <= 4:
		return Medium
	default:
		return Large
	}
}

// Result is the outcome of a table search. TableNumber is 0 when nothing is free.
type Result struct {
	Available      bool
	TableNumber    int
	TotalAvailable int
}
