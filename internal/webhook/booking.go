package webhook

import (
	"context"

	"github.com/wolfman30/restaurant-webhook/internal/i18n"
	"github.com/wolfman30/restaurant-webhook/internal/notify"
	"github.com/wolfman30/restaurant-webhook/internal/reservations"
	"github.com/wolfman30/restaurant-webhook/internal/slots"
	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

func (s *Service) makeReservation(ctx context.Context, t *turn) (Response, error) {
	name := t.slot(slots.NameAliases)
	phone := t.slot(slots.PhoneAliases)
	email := t.slot(slots.EmailAliases)
	date := t.slot(slots.DateAliases)
	clock := t.slot(slots.TimeAliases)
	if err := requireSlots("name", name, "phone", phone, "email", email, "date", date, "time", clock); err != nil {
		return Response{}, err
	}

	guests, err := count(slots.GuestCount, t.slot(slots.GuestAliases), "guests")
	if err != nil {
		return Response{}, err
	}
	if err := reservations.ValidateContact(name, phone, email); err != nil {
		return Response{}, err
	}
	w, err := s.resolveWhen(date, clock, "date", "time")
	if err != nil {
		return Response{}, err
	}

	dup, err := s.bookings.HasDuplicate(ctx, name, phone, w.date, w.clock)
	if err != nil {
		return Response{}, err
	}
	if dup {
		return TextResponse(s.tr.T(t.lang, "booking.duplicate", i18n.Args{"Name": name, "Date": w.date, "Time": w.clock})), nil
	}

	res := s.resolver.FindTable(ctx, guests, w.spec.Weekday, w.spec.Hour)
	if !res.Available {
		return TextResponse(s.tr.T(t.lang, "booking.full", i18n.Args{"Date": w.date, "Time": w.clock})), nil
	}

	rec, err := s.bookings.Create(ctx, reservations.Record{
		Name:   name,
		Phone:  phone,
		Email:  email,
		Guests: guests,
		Date:   w.date,
		Time:   w.clock,
		Table:  res.TableNumber,
	})
	if err != nil {
		return Response{}, err
	}
	s.logger.Info("reservation booked", "phone", logging.MaskPhone(phone), "table", rec.Table, "date", rec.Date, "time", rec.Time)
	s.sendEmail(notify.EmailConfirmation, rec, t.lang)

	return MultiResponse(
		s.tr.T(t.lang, "booking.confirmed", i18n.Args{"Name": rec.Name}),
		s.tr.T(t.lang, "booking.details", i18n.Args{"Table": rec.Table, "Guests": rec.Guests, "Date": rec.Date, "Time": rec.Time}),
		s.tr.T(t.lang, "booking.email_note", i18n.Args{"Email": rec.Email}),
	), nil
}

func (s *Service) checkAvailability(ctx context.Context, t *turn) (Response, error) {
	guests, err := count(slots.GuestCount, t.slot(slots.GuestAliases), "guests")
	if err != nil {
		return Response{}, err
	}
	w, err := s.resolveWhen(t.slot(slots.DateAliases), t.slot(slots.TimeAliases), "date", "time")
	if err != nil {
		return Response{}, err
	}

	res := s.resolver.FindTable(ctx, guests, w.spec.Weekday, w.spec.Hour)
	if !res.Available {
		return TextResponse(s.tr.T(t.lang, "availability.full", i18n.Args{"Date": w.date, "Time": w.clock})), nil
	}
	return TextResponse(s.tr.T(t.lang, "availability.free", i18n.Args{
		"Count":  res.TotalAvailable,
		"Date":   w.date,
		"Time":   w.clock,
		"Table":  res.TableNumber,
		"Guests": guests,
	})), nil
}

func (s *Service) checkTable(ctx context.Context, t *turn) (Response, error) {
	table, err := count(slots.TableNumber, t.slot(slots.TableAliases), "table")
	if err != nil {
		return Response{}, err
	}
	w, err := s.resolveWhen(t.slot(slots.DateAliases), t.slot(slots.TimeAliases), "date", "time")
	if err != nil {
		return Response{}, err
	}

	key := "table.taken"
	if s.resolver.CheckTable(ctx, table, w.spec.Weekday, w.spec.Hour) {
		key = "table.free"
	}
	return TextResponse(s.tr.T(t.lang, key, i18n.Args{"Table": table, "Date": w.date, "Time": w.clock})), nil
}
