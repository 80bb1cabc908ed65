package webhook

import (
	"context"
	"errors"
	"strconv"

	"github.com/wolfman30/restaurant-webhook/internal/i18n"
	"github.com/wolfman30/restaurant-webhook/internal/notify"
	"github.com/wolfman30/restaurant-webhook/internal/reservations"
	"github.com/wolfman30/restaurant-webhook/internal/schedule"
	"github.com/wolfman30/restaurant-webhook/internal/slots"
	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

// newGuestCount has no default: a guest change must say how many.
var newGuestCount = slots.CountRange{Min: slots.GuestCount.Min, Max: slots.GuestCount.Max}

// errRowVanished marks an update whose row no longer matches its key.
var errRowVanished = errors.New("webhook: reservation row no longer matches")

func (s *Service) myReservations(ctx context.Context, t *turn) (Response, error) {
	phone := t.slot(slots.PhoneAliases)
	if err := requireSlots("phone", phone); err != nil {
		return Response{}, err
	}
	return s.listing(ctx, t, phone)
}

func (s *Service) modifyReservation(ctx context.Context, t *turn) (Response, error) {
	phone := t.slot(slots.PhoneAliases)
	if err := requireSlots("phone", phone); err != nil {
		return Response{}, err
	}
	resp, err := s.listing(ctx, t, phone)
	if err != nil || len(resp.FulfillmentMessages) == 0 {
		return resp, err
	}
	return MultiResponse(append(bubbles(resp), s.tr.T(t.lang, "modify.prompt", nil))...), nil
}

// listing renders the caller's confirmed bookings, or the "none" reply as a
// single text response.
func (s *Service) listing(ctx context.Context, t *turn, phone string) (Response, error) {
	records, err := s.bookings.ListConfirmed(ctx, phone)
	if err != nil {
		return Response{}, err
	}
	if len(records) == 0 {
		return TextResponse(s.tr.T(t.lang, "reservations.none", i18n.Args{"Phone": phone})), nil
	}
	out := []string{s.tr.T(t.lang, "reservations.header", nil)}
	for _, r := range records {
		out = append(out, s.tr.T(t.lang, "reservations.item", i18n.Args{"Date": r.Date, "Time": r.Time, "Table": r.Table, "Guests": r.Guests}))
	}
	return MultiResponse(out...), nil
}

func bubbles(r Response) []string {
	out := make([]string, 0, len(r.FulfillmentMessages))
	for _, m := range r.FulfillmentMessages {
		out = append(out, m.Text.Text...)
	}
	return out
}

// target is the booking a modify or cancel turn refers to, plus the
// formatted date/time the caller gave for it.
type target struct {
	record reservations.Record
	date   string
	clock  string
}

func displayOrEmpty(raw string, format func(string) string) string {
	if raw == "" {
		return ""
	}
	return format(raw)
}

// findTarget resolves the booking from phone and the optional current
// date/time slots. A nil target with a nil error is a reply already built.
func (s *Service) findTarget(ctx context.Context, t *turn, notFoundKey string) (*target, Response, error) {
	phone := t.slot(slots.PhoneAliases)
	if err := requireSlots("phone", phone); err != nil {
		return nil, Response{}, err
	}
	date := displayOrEmpty(t.slot(slots.DateAliases), schedule.FormatDate)
	clock := displayOrEmpty(t.slot(slots.TimeAliases), schedule.FormatTime)

	rec, ok, err := s.bookings.Resolve(ctx, phone, date, clock)
	if errors.Is(err, reservations.ErrAmbiguous) {
		return nil, TextResponse(s.tr.T(t.lang, "modify.ambiguous", nil)), nil
	}
	if err != nil {
		return nil, Response{}, err
	}
	if !ok {
		return nil, TextResponse(s.tr.T(t.lang, notFoundKey, i18n.Args{"Date": date, "Time": clock})), nil
	}
	return &target{record: rec, date: date, clock: clock}, Response{}, nil
}

func (s *Service) modifyDate(ctx context.Context, t *turn) (Response, error) {
	newDate := t.slot(slots.NewDateAliases)
	if err := requireSlots("phone", t.slot(slots.PhoneAliases), "new_date", newDate); err != nil {
		return Response{}, err
	}
	tg, reply, err := s.findTarget(ctx, t, "modify.not_found")
	if tg == nil {
		return reply, err
	}
	return s.move(ctx, t, tg, newDate, tg.record.Time, "new_date", "time")
}

func (s *Service) modifyTime(ctx context.Context, t *turn) (Response, error) {
	newTime := t.slot(slots.NewTimeAliases)
	if err := requireSlots("phone", t.slot(slots.PhoneAliases), "new_time", newTime); err != nil {
		return Response{}, err
	}
	tg, reply, err := s.findTarget(ctx, t, "modify.not_found")
	if tg == nil {
		return reply, err
	}
	return s.move(ctx, t, tg, tg.record.Date, newTime, "date", "new_time")
}

// move reschedules a booking, keeping its table when that table is still
// free and otherwise picking a new one.
func (s *Service) move(ctx context.Context, t *turn, tg *target, dateSlot, timeSlot, dateField, timeField string) (Response, error) {
	w, err := s.resolveWhen(dateSlot, timeSlot, dateField, timeField)
	if err != nil {
		return Response{}, err
	}
	rec := tg.record
	key := reservations.KeyOf(rec)

	table := rec.Table
	if !s.resolver.CheckTable(ctx, table, w.spec.Weekday, w.spec.Hour) {
		res := s.resolver.FindTable(ctx, rec.Guests, w.spec.Weekday, w.spec.Hour)
		if !res.Available {
			return TextResponse(s.tr.T(t.lang, "modify.no_table", i18n.Args{"Date": w.date, "Time": w.clock})), nil
		}
		table = res.TableNumber
	}

	// Each update is keyed by the row's current date and time, so the key
	// follows the changes.
	changes := []struct {
		field reservations.Field
		value string
		apply func()
	}{
		{reservations.FieldTable, strconv.Itoa(table), func() { rec.Table = table }},
		{reservations.FieldDate, w.date, func() { rec.Date = w.date; key.Date = w.date }},
		{reservations.FieldTime, w.clock, func() { rec.Time = w.clock; key.Time = w.clock }},
	}
	current := []string{strconv.Itoa(rec.Table), rec.Date, rec.Time}
	applied := 0
	for i, c := range changes {
		if current[i] == c.value {
			continue
		}
		ok, err := s.bookings.UpdateField(ctx, key, c.field, c.value)
		if err == nil && !ok {
			err = errRowVanished
		}
		if err != nil {
			if applied > 0 {
				s.logger.Warn("reservation partially moved",
					"phone", logging.MaskPhone(rec.Phone),
					"table", rec.Table, "date", rec.Date, "time", rec.Time,
					"failed_field", c.field.String(), "error", err)
			}
			if errors.Is(err, errRowVanished) {
				return TextResponse(s.tr.T(t.lang, "modify.not_found", i18n.Args{"Date": tg.date, "Time": tg.clock})), nil
			}
			return Response{}, err
		}
		c.apply()
		applied++
	}

	s.logger.Info("reservation moved", "phone", logging.MaskPhone(rec.Phone), "table", rec.Table, "date", rec.Date, "time", rec.Time)
	if applied > 0 {
		s.sendEmail(notify.EmailModification, rec, t.lang)
	}
	return TextResponse(s.tr.T(t.lang, "modify.moved", i18n.Args{"Date": rec.Date, "Time": rec.Time, "Table": rec.Table})), nil
}

func (s *Service) modifyGuests(ctx context.Context, t *turn) (Response, error) {
	raw, _ := t.params.Lookup(slots.NewGuestAliases...)
	if err := requireSlots("phone", t.slot(slots.PhoneAliases), "new_guests", raw); err != nil {
		return Response{}, err
	}
	guests, err := count(newGuestCount, raw, "new_guests")
	if err != nil {
		return Response{}, err
	}
	tg, reply, err := s.findTarget(ctx, t, "modify.not_found")
	if tg == nil {
		return reply, err
	}

	rec := tg.record
	ok, err := s.bookings.UpdateField(ctx, reservations.KeyOf(rec), reservations.FieldGuests, strconv.Itoa(guests))
	if err != nil {
		return Response{}, err
	}
	if !ok {
		return TextResponse(s.tr.T(t.lang, "modify.not_found", i18n.Args{"Date": tg.date, "Time": tg.clock})), nil
	}
	rec.Guests = guests

	s.sendEmail(notify.EmailModification, rec, t.lang)
	return TextResponse(s.tr.T(t.lang, "modify.guests", i18n.Args{"Date": rec.Date, "Time": rec.Time, "Guests": guests})), nil
}

func (s *Service) cancelReservation(ctx context.Context, t *turn) (Response, error) {
	tg, reply, err := s.findTarget(ctx, t, "cancel.not_found")
	if tg == nil {
		return reply, err
	}

	rec := tg.record
	ok, err := s.bookings.Cancel(ctx, reservations.KeyOf(rec))
	if err != nil {
		return Response{}, err
	}
	if !ok {
		return TextResponse(s.tr.T(t.lang, "cancel.not_found", i18n.Args{"Date": tg.date, "Time": tg.clock})), nil
	}

	s.sendEmail(notify.EmailCancellation, rec, t.lang)
	return TextResponse(s.tr.T(t.lang, "cancel.done", i18n.Args{"Date": rec.Date, "Time": rec.Time})), nil
}
