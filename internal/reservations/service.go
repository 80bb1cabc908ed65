package reservations

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

var reservationsTracer = otel.Tracer("restaurant.internal.reservations")

// Service applies booking rules on top of a Store.
type Service struct {
	store  Store
	logger *logging.Logger
	now    func() time.Time
}

// NewService constructs a reservation service.
func NewService(store Store, logger *logging.Logger) *Service {
	if store == nil {
		panic("reservations: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// HasDuplicate reports whether a confirmed booking already exists for the
// same name, phone, display date and display time.
func (s *Service) HasDuplicate(ctx context.Context, name, phone, date, clock string) (bool, error) {
	ctx, span := reservationsTracer.Start(ctx, "reservations.has_duplicate")
	defer span.End()

	existing, err := s.store.FindByPhone(ctx, phone)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	key := Key{Phone: phone, Date: date, Time: clock}
	for _, r := range existing {
		if key.Matches(r) && strings.EqualFold(strings.TrimSpace(r.Name), strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

// Create stamps and appends a confirmed booking.
func (s *Service) Create(ctx context.Context, r Record) (Record, error) {
	ctx, span := reservationsTracer.Start(ctx, "reservations.create")
	defer span.End()
	span.SetAttributes(
		attribute.Int("restaurant.table", r.Table),
		attribute.Int("restaurant.guests", r.Guests),
	)

	if r.Timestamp == "" {
		r.Timestamp = s.now().Format(TimestampLayout)
	}
	r.Status = StatusConfirmed
	if err := s.store.Append(ctx, r); err != nil {
		span.RecordError(err)
		return Record{}, err
	}
	s.logger.Info("reservation created",
		"phone", logging.MaskPhone(r.Phone),
		"table", r.Table,
		"guests", r.Guests,
		"date", r.Date,
		"time", r.Time,
	)
	return r, nil
}

// ListConfirmed returns the confirmed bookings for a phone number.
func (s *Service) ListConfirmed(ctx context.Context, phone string) ([]Record, error) {
	ctx, span := reservationsTracer.Start(ctx, "reservations.list")
	defer span.End()

	records, err := s.store.FindByPhone(ctx, phone)
	if err != nil {
		span.RecordError(err)
	}
	return records, err
}

// UpdateField changes one column of the booking identified by key.
func (s *Service) UpdateField(ctx context.Context, key Key, field Field, value string) (bool, error) {
	ctx, span := reservationsTracer.Start(ctx, "reservations.update")
	defer span.End()
	span.SetAttributes(attribute.String("restaurant.field", field.String()))

	ok, err := s.store.UpdateField(ctx, key, field, value)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if ok {
		s.logger.Info("reservation updated", "phone", logging.MaskPhone(key.Phone), "field", field.String())
	}
	return ok, nil
}

// Cancel removes the booking identified by key.
func (s *Service) Cancel(ctx context.Context, key Key) (bool, error) {
	ctx, span := reservationsTracer.Start(ctx, "reservations.cancel")
	defer span.End()

	ok, err := s.store.Delete(ctx, key)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if ok {
		s.logger.Info("reservation cancelled", "phone", logging.MaskPhone(key.Phone), "date", key.Date, "time", key.Time)
	}
	return ok, nil
}

// ErrAmbiguous is returned by Resolve when several bookings fit a partial key.
var ErrAmbiguous = errors.New("reservations: more than one booking matches")

// Resolve finds the booking a caller refers to. With both date and time it
// is an exact match; with either missing it succeeds only when a single
// confirmed booking of that phone fits what was given.
func (s *Service) Resolve(ctx context.Context, phone, date, clock string) (Record, bool, error) {
	ctx, span := reservationsTracer.Start(ctx, "reservations.resolve")
	defer span.End()

	records, err := s.store.FindByPhone(ctx, phone)
	if err != nil {
		span.RecordError(err)
		return Record{}, false, err
	}

	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date != "" && clock != "" {
		key := Key{Phone: phone, Date: date, Time: clock}
		for _, r := range records {
			if key.Matches(r) {
				return r, true, nil
			}
		}
		return Record{}, false, nil
	}

	var candidates []Record
	for _, r := range records {
		if date != "" && strings.TrimSpace(r.Date) != date {
			continue
		}
		if clock != "" && strings.TrimSpace(r.Time) != clock {
			continue
		}
		candidates = append(candidates, r)
	}
	switch len(candidates) {
	case 0:
		return Record{}, false, nil
	case 1:
		return candidates[0], true, nil
	default:
		return Record{}, false, ErrAmbiguous
	}
}

// KeyOf returns the lookup key of a record.
func KeyOf(r Record) Key {
	return Key{Phone: r.Phone, Date: r.Date, Time: r.Time}
}
