package availability

import (
	"context"

	"github.com/wolfman30/restaurant-webhook/internal/schedule"
)

// RuleBased is a deterministic occupancy heuristic. Weekend peak hours come
// out busier than weekday off-peak hours, and the same inputs always give the
// same answer.
type RuleBased struct{}

func (RuleBased) IsOccupied(_ context.Context, f Features) (bool, error) {
	return ruleOccupied(f), nil
}

func ruleOccupied(f Features) bool {
	if f.Hour < schedule.OpeningHour || f.Hour > schedule.LastBookingHour {
		return true
	}
	score := (f.Table*7 + f.Hour*3 + f.Weekday*5) % 10
	if score < 0 {
		score += 10
	}
	return score < busyThreshold(f.Weekday, f.Hour)
}

func busyThreshold(weekday, hour int) int {
	weekend := weekday >= 4
	peak := (hour >= 12 && hour <= 14) || (hour >= 18 && hour <= 21)
	switch {
	case weekend && peak:
		return 7
	case weekend:
		return 5
	case peak:
		return 4
	default:
		return 2
	}
}
