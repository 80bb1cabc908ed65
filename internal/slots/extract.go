package slots

import "strings"

// maxDepth bounds recursion into nested composites.
const maxDepth = 16

// Extract reduces a raw slot value to a single trimmed string. The boolean is
// false when the value is absent, empty, or the literal "None"/"null".
func Extract(v SlotValue) (out string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = "", false
		}
	}()
	return extract(v, 0)
}

func extract(v SlotValue, depth int) (string, bool) {
	if depth > maxDepth {
		return "", false
	}
	switch v.kind {
	case Scalar:
		return clean(v.text)
	case Sequence:
		if len(v.items) == 0 {
			return "", false
		}
		first := v.items[0]
		if first.kind == Mapping {
			return extractMapping(first, depth+1, false)
		}
		return extract(first, depth+1)
	case Mapping:
		return extractMapping(v, depth+1, true)
	default:
		return "", false
	}
}

// extractMapping prefers "name", then "value". Top-level mappings with a
// single entry use that entry; otherwise the first truthy entry wins.
func extractMapping(v SlotValue, depth int, singleEntry bool) (string, bool) {
	for _, key := range []string{"name", "value"} {
		if inner, ok := v.Get(key); ok {
			if s, ok := extract(inner, depth); ok {
				return s, true
			}
		}
	}
	if singleEntry && len(v.entries) == 1 {
		return extract(v.entries[0].Value, depth)
	}
	for _, e := range v.entries {
		if !e.Value.Truthy() {
			continue
		}
		if s, ok := extract(e.Value, depth); ok {
			return s, true
		}
	}
	return "", false
}

func clean(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "None", "null":
		return "", false
	}
	return s, true
}

// Params are the named parameters of one intent invocation.
type Params map[string]SlotValue

// Lookup tries each alias in order and returns the first non-empty value.
func (p Params) Lookup(aliases ...string) (string, bool) {
	for _, alias := range aliases {
		raw, ok := p[alias]
		if !ok {
			continue
		}
		if s, ok := Extract(raw); ok {
			return s, true
		}
	}
	return "", false
}

// Parameter aliases in priority order.
var (
	GuestAliases    = []string{"guest_count", "guests", "number", "people", "party_size"}
	DateAliases     = []string{"date", "reservation_date", "booking_date", "day"}
	TimeAliases     = []string{"time", "reservation_time", "booking_time"}
	TableAliases    = []string{"table_number", "table", "table_id", "number"}
	PhoneAliases    = []string{"phone", "phone_number", "phone-number", "telephone", "mobile"}
	NameAliases     = []string{"name", "person", "customer_name", "given-name"}
	EmailAliases    = []string{"email", "email_address"}
	NewDateAliases  = []string{"new_date", "new-date", "newdate"}
	NewTimeAliases  = []string{"new_time", "new-time", "newtime"}
	NewGuestAliases = []string{"new_guest_count", "new_guests", "new-guests", "new_number"}
	LanguageAliases = []string{"language", "lang"}
)
