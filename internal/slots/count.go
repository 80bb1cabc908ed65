package slots

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNoCount is returned when a count slot is empty and the range has no default.
var ErrNoCount = errors.New("slots: count is empty")

// ValidationError reports a count that is present but unusable.
type ValidationError struct {
	Value  string
	Reason string
	Min    int
	Max    int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("slots: invalid count %q: %s", e.Value, e.Reason)
}

// CountRange bounds a count slot. A zero Default means the slot is required.
type CountRange struct {
	Min     int
	Max     int
	Default int
}

var (
	GuestCount  = CountRange{Min: 1, Max: 20, Default: 2}
	TableNumber = CountRange{Min: 1, Max: 20}
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
}

var unitWords = map[string]struct{}{
	"guests": {}, "guest": {}, "people": {}, "persons": {}, "person": {},
	"table": {}, "number": {}, "#": {},
}

// Normalize converts digits, decimals or English number words into an
// integer inside the range.
func (r CountRange) Normalize(raw string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	var kept []string
	for _, tok := range strings.Fields(s) {
		tok = strings.TrimPrefix(tok, "#")
		if _, unit := unitWords[tok]; unit || tok == "" {
			continue
		}
		kept = append(kept, tok)
	}
	s = strings.Join(kept, " ")

	if s == "" {
		if r.Default > 0 {
			return r.Default, nil
		}
		return 0, ErrNoCount
	}

	n, ok := numberWords[s]
	if !ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, &ValidationError{Value: raw, Reason: "not a number", Min: r.Min, Max: r.Max}
		}
		f = math.Trunc(f)
		if f < float64(r.Min) || f > float64(r.Max) {
			return 0, &ValidationError{Value: raw, Reason: "out of range", Min: r.Min, Max: r.Max}
		}
		n = int(f)
	}
	if n < r.Min || n > r.Max {
		return 0, &ValidationError{Value: raw, Reason: "out of range", Min: r.Min, Max: r.Max}
	}
	return n, nil
}
