package availability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/restaurant-webhook/internal/observability/metrics"
	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

var availabilityTracer = otel.Tracer("restaurant.internal.availability")

// Resolver selects tables using a Predictor, substituting RuleBased when the
// predictor is missing or fails.
type Resolver struct {
	model   Predictor
	logger  *logging.Logger
	metrics *metrics.WebhookMetrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records fallback usage.
func WithMetrics(m *metrics.WebhookMetrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver constructs a resolver. model may be nil.
func NewResolver(model Predictor, opts ...Option) *Resolver {
	if fm, ok := model.(*ForestModel); ok && fm == nil {
		model = nil
	}
	r := &Resolver{model: model, logger: logging.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HasModel reports whether a trained predictor is configured.
func (r *Resolver) HasModel() bool {
	return r.model != nil
}

// FindTable scans tables in ascending order and returns the first free table
// of the party's size class, or else the first free table of any class.
func (r *Resolver) FindTable(ctx context.Context, guests, weekday, hour int) Result {
	ctx, span := availabilityTracer.Start(ctx, "availability.find_table")
	defer span.End()
	span.SetAttributes(
		attribute.Int("restaurant.guests", guests),
		attribute.Int("restaurant.weekday", weekday),
		attribute.Int("restaurant.hour", hour),
	)

	preferred := PreferredClass(guests)
	free := make([]int, 0, TableCount)
	var modelErr error
	for table := 1; table <= TableCount; table++ {
		busy, err := r.occupied(ctx, Features{Table: table, Guests: guests, Weekday: weekday, Hour: hour})
		if err != nil && modelErr == nil {
			modelErr = err
		}
		if !busy {
			free = append(free, table)
		}
	}
	if modelErr != nil {
		span.RecordError(modelErr)
		r.logger.Warn("predictor failed, using rule-based occupancy", "error", modelErr)
	}

	res := Result{TotalAvailable: len(free)}
	if len(free) == 0 {
		return res
	}
	res.Available = true
	res.TableNumber = free[0]
	for _, table := range free {
		if ClassOf(table) == preferred {
			res.TableNumber = table
			break
		}
	}
	span.SetAttributes(
		attribute.Int("restaurant.table", res.TableNumber),
		attribute.Int("restaurant.total_available", res.TotalAvailable),
	)
	return res
}

// CheckTable reports whether one specific table is free, using a
// representative party size.
func (r *Resolver) CheckTable(ctx context.Context, table, weekday, hour int) bool {
	ctx, span := availabilityTracer.Start(ctx, "availability.check_table")
	defer span.End()
	span.SetAttributes(
		attribute.Int("restaurant.table", table),
		attribute.Int("restaurant.weekday", weekday),
		attribute.Int("restaurant.hour", hour),
	)

	busy, err := r.occupied(ctx, Features{Table: table, Guests: representativeGuests, Weekday: weekday, Hour: hour})
	if err != nil {
		span.RecordError(err)
		r.logger.Warn("predictor failed, using rule-based occupancy", "error", err, "table", table)
	}
	return !busy
}

// occupied always yields an answer; the returned error is the model failure
// that triggered the fallback, if any.
func (r *Resolver) occupied(ctx context.Context, f Features) (bool, error) {
	if r.model == nil {
		r.metrics.ObserveFallback("no_model")
		return ruleOccupied(f), nil
	}
	busy, err := r.predict(ctx, f)
	switch {
	case errors.Is(err, errPredictorPanic):
		r.metrics.ObserveFallback("panic")
		return ruleOccupied(f), err
	case err != nil:
		r.metrics.ObserveFallback("error")
		return ruleOccupied(f), err
	}
	return busy, nil
}

var errPredictorPanic = errors.New("availability: predictor panic")

func (r *Resolver) predict(ctx context.Context, f Features) (busy bool, err error) {
	defer func() {
		if v := recover(); v != nil {
			busy, err = false, fmt.Errorf("%w: %v", errPredictorPanic, v)
		}
	}()
	return r.model.IsOccupied(ctx, f)
}
