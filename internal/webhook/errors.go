package webhook

import (
	"errors"
	"strings"

	"github.com/wolfman30/restaurant-webhook/internal/i18n"
	"github.com/wolfman30/restaurant-webhook/internal/reservations"
	"github.com/wolfman30/restaurant-webhook/internal/schedule"
	"github.com/wolfman30/restaurant-webhook/internal/slots"
)

// MissingSlotError lists required slots the request did not carry. Fields
// use the catalog names under "field.", e.g. "phone" or "new_date".
type MissingSlotError struct {
	Fields []string
}

func (e *MissingSlotError) Error() string {
	return "webhook: missing slots: " + strings.Join(e.Fields, ", ")
}

// FieldError reports a slot that is present but could not be used.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return "webhook: invalid " + e.Field + ": " + e.Err.Error()
	}
	return "webhook: invalid " + e.Field + ": " + e.Value
}

func (e *FieldError) Unwrap() error { return e.Err }

// outcome labels for the request counter.
const (
	outcomeOK          = "ok"
	outcomeMissingSlot = "missing_slot"
	outcomeInvalid     = "invalid"
	outcomeHours       = "outside_hours"
	outcomeBackend     = "backend_unavailable"
	outcomeError       = "error"
	outcomePanic       = "panic"
	outcomeUnknown     = "unknown_intent"
)

// failure turns a handler error into the reply and its metric outcome.
func (s *Service) failure(lang i18n.Language, intent string, err error) (Response, string) {
	var (
		missing  *MissingSlotError
		field    *FieldError
		contact  *reservations.ContactError
		hours    *schedule.HoursError
		badCount *slots.ValidationError
	)
	switch {
	case errors.As(err, &missing):
		return TextResponse(s.tr.T(lang, "missing_slots", i18n.Args{"Fields": s.fieldList(lang, missing.Fields)})), outcomeMissingSlot
	case errors.As(err, &field):
		return TextResponse(s.invalidField(lang, field)), outcomeInvalid
	case errors.As(err, &contact):
		return TextResponse(s.tr.T(lang, "invalid."+contact.Field, nil)), outcomeInvalid
	case errors.As(err, &hours):
		key := "hours.too_late"
		if hours.TooEarly {
			key = "hours.too_early"
		}
		args := s.windowArgs()
		args["Hour"] = schedule.FormatHour(hours.Hour)
		return TextResponse(s.tr.T(lang, key, args)), outcomeHours
	case errors.As(err, &badCount):
		return TextResponse(s.tr.T(lang, "invalid.guests", i18n.Args{"Min": badCount.Min, "Max": badCount.Max})), outcomeInvalid
	case errors.Is(err, reservations.ErrUnavailable):
		s.logger.Warn("reservation store unavailable", "intent", intent, "error", err)
		return TextResponse(s.tr.T(lang, "store_unavailable", i18n.Args{"Phone": s.info.Phone})), outcomeBackend
	default:
		s.logger.Error("webhook intent failed", "intent", intent, "error", err)
		return s.apology(lang), outcomeError
	}
}

func (s *Service) invalidField(lang i18n.Language, e *FieldError) string {
	var count *slots.ValidationError
	switch e.Field {
	case "guests", "new_guests":
		args := i18n.Args{"Min": slots.GuestCount.Min, "Max": slots.GuestCount.Max}
		if errors.As(e.Err, &count) {
			args = i18n.Args{"Min": count.Min, "Max": count.Max}
		}
		return s.tr.T(lang, "invalid.guests", args)
	case "table":
		return s.tr.T(lang, "invalid.table", i18n.Args{"Min": slots.TableNumber.Min, "Max": slots.TableNumber.Max})
	case "date", "new_date":
		return s.tr.T(lang, "invalid.date", i18n.Args{"Value": e.Value})
	case "time", "new_time":
		return s.tr.T(lang, "invalid.time", i18n.Args{"Value": e.Value})
	default:
		return s.tr.T(lang, "invalid."+e.Field, nil)
	}
}

// fieldList renders "a, b and c" using the localized field names.
func (s *Service) fieldList(lang i18n.Language, fields []string) string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, s.tr.T(lang, "field."+f, nil))
	}
	if len(names) <= 1 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + " " + s.tr.T(lang, "list.and", nil) + " " + names[len(names)-1]
}

func (s *Service) apology(lang i18n.Language) Response {
	return TextResponse(s.tr.T(lang, "apology", i18n.Args{"Phone": s.info.Phone}))
}

func (s *Service) welcome(lang i18n.Language) Response {
	return TextResponse(s.tr.T(lang, "welcome", i18n.Args{"Restaurant": s.info.Name}))
}
