package webhook

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"
	"time"

	"github.com/wolfman30/restaurant-webhook/internal/availability"
	"github.com/wolfman30/restaurant-webhook/internal/i18n"
	"github.com/wolfman30/restaurant-webhook/internal/notify"
	"github.com/wolfman30/restaurant-webhook/internal/observability/metrics"
	"github.com/wolfman30/restaurant-webhook/internal/reservations"
	"github.com/wolfman30/restaurant-webhook/internal/restaurant"
	"github.com/wolfman30/restaurant-webhook/internal/schedule"
	"github.com/wolfman30/restaurant-webhook/internal/slots"
	"github.com/wolfman30/restaurant-webhook/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var webhookTracer = otel.Tracer("restaurant.internal.webhook")

// Intent names understood by the service.
const (
	IntentMakeReservation   = "make.reservation"
	IntentCheckAvailability = "check.availability"
	IntentCheckTable        = "check.table.specific"
	IntentShowMenu          = "show.menu"
	IntentOpeningHours      = "opening.hours"
	IntentRestaurantInfo    = "restaurant.info"
	IntentContactHuman      = "contact.human"
	IntentLocation          = "restaurant.location"
	IntentModify            = "modify.reservation"
	IntentModifyDate        = "modify.reservation.date"
	IntentModifyTime        = "modify.reservation.time"
	IntentModifyGuests      = "modify.reservation.guests"
	IntentCancel            = "cancel.reservation"
	IntentMyReservations    = "check.my.reservation"
)

// Config wires a Service. Resolver, Reservations and Translator are required.
type Config struct {
	Resolver        *availability.Resolver
	Reservations    *reservations.Service
	Emails          *notify.Dispatcher
	Translator      *i18n.Translator
	Preferences     i18n.PreferenceStore
	Restaurant      restaurant.Info
	DefaultLanguage i18n.Language
	// StrictTemporal rejects date or time slots that could not be parsed
	// instead of booking the default Saturday 7 PM slot.
	StrictTemporal bool
	Logger         *logging.Logger
	Metrics        *metrics.WebhookMetrics
}

// Service answers fulfillment requests.
type Service struct {
	resolver *availability.Resolver
	bookings *reservations.Service
	emails   *notify.Dispatcher
	tr       *i18n.Translator
	prefs    i18n.PreferenceStore
	info     restaurant.Info
	defLang  i18n.Language
	strict   bool
	parser   schedule.Parser
	logger   *logging.Logger
	metrics  *metrics.WebhookMetrics
	handlers map[string]handlerFunc
}

type handlerFunc func(ctx context.Context, t *turn) (Response, error)

// turn is the per-request state handed to intent handlers.
type turn struct {
	params  slots.Params
	lang    i18n.Language
	session string
}

func (t *turn) slot(aliases []string) string {
	v, _ := t.params.Lookup(aliases...)
	return v
}

// NewService validates cfg and builds the intent dispatch table.
func NewService(cfg Config) (*Service, error) {
	if cfg.Resolver == nil {
		return nil, errors.New("webhook: availability resolver required")
	}
	if cfg.Reservations == nil {
		return nil, errors.New("webhook: reservation service required")
	}
	if cfg.Translator == nil {
		return nil, errors.New("webhook: translator required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	def, ok := i18n.ParseLanguage(string(cfg.DefaultLanguage))
	if !ok {
		def = i18n.English
	}
	s := &Service{
		resolver: cfg.Resolver,
		bookings: cfg.Reservations,
		emails:   cfg.Emails,
		tr:       cfg.Translator,
		prefs:    cfg.Preferences,
		info:     cfg.Restaurant,
		defLang:  def,
		strict:   cfg.StrictTemporal,
		parser:   schedule.Parser{Logger: logger},
		logger:   logger,
		metrics:  cfg.Metrics,
	}
	s.handlers = map[string]handlerFunc{
		IntentMakeReservation:   s.makeReservation,
		IntentCheckAvailability: s.checkAvailability,
		IntentCheckTable:        s.checkTable,
		IntentShowMenu:          s.showMenu,
		IntentOpeningHours:      s.openingHours,
		IntentRestaurantInfo:    s.restaurantInfo,
		IntentContactHuman:      s.contactHuman,
		IntentLocation:          s.location,
		IntentModify:            s.modifyReservation,
		IntentModifyDate:        s.modifyDate,
		IntentModifyTime:        s.modifyTime,
		IntentModifyGuests:      s.modifyGuests,
		IntentCancel:            s.cancelReservation,
		IntentMyReservations:    s.myReservations,
	}
	return s, nil
}

// Handle answers one request. It never fails: errors and panics become a
// localized reply.
func (s *Service) Handle(ctx context.Context, req Request) Response {
	start := time.Now()
	intent := strings.TrimSpace(req.QueryResult.Intent.DisplayName)
	ctx, span := webhookTracer.Start(ctx, "webhook.handle", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	t := &turn{
		params:  req.QueryResult.Parameters,
		session: req.Session,
		lang:    s.language(ctx, req),
	}

	resp, outcome := s.dispatch(ctx, intent, t)

	label := intent
	if _, known := s.handlers[intent]; !known {
		label = "unknown"
	}
	span.SetAttributes(
		attribute.String("webhook.intent", label),
		attribute.String("webhook.outcome", outcome),
		attribute.String("webhook.language", t.lang.String()),
	)
	s.metrics.ObserveRequest(label, outcome, time.Since(start).Seconds())
	s.logger.Debug("webhook request handled", "intent", label, "outcome", outcome, "lang", t.lang.String(), "response_id", req.ResponseID)
	return resp
}

// Apology is the reply used when a request cannot be decoded.
func (s *Service) Apology(lang i18n.Language) Response {
	if lang == "" {
		lang = s.defLang
	}
	return s.apology(lang)
}

func (s *Service) dispatch(ctx context.Context, intent string, t *turn) (resp Response, outcome string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("webhook intent panicked", "intent", intent, "panic", r, "stack", string(debug.Stack()))
			resp, outcome = s.apology(t.lang), outcomePanic
		}
	}()

	h, ok := s.handlers[intent]
	if !ok {
		return s.welcome(t.lang), outcomeUnknown
	}
	resp, err := h(ctx, t)
	if err != nil {
		return s.failure(t.lang, intent, err)
	}
	return resp, outcomeOK
}

func (s *Service) language(ctx context.Context, req Request) i18n.Language {
	slot, _ := req.QueryResult.Parameters.Lookup(slots.LanguageAliases...)
	lang, err := i18n.Choose(ctx, s.prefs, req.Session, slot, req.QueryResult.LanguageCode, s.defLang)
	if err != nil {
		s.logger.Warn("language preference store failed", "error", err)
	}
	return lang
}

// when is a parsed date/time slot pair with its display strings.
type when struct {
	spec  schedule.Spec
	date  string
	clock string
}

// resolveWhen parses and hours-checks a date/time pair. dateField and
// timeField name the slots in errors.
func (s *Service) resolveWhen(dateSlot, timeSlot, dateField, timeField string) (when, error) {
	spec, err := s.parser.Parse(dateSlot, timeSlot)
	if err != nil {
		return when{}, err
	}
	if s.strict {
		var missing []string
		if spec.DateDefaulted && strings.TrimSpace(dateSlot) == "" {
			missing = append(missing, dateField)
		}
		if spec.TimeDefaulted && strings.TrimSpace(timeSlot) == "" {
			missing = append(missing, timeField)
		}
		if len(missing) > 0 {
			return when{}, &MissingSlotError{Fields: missing}
		}
		if spec.DateDefaulted {
			return when{}, &FieldError{Field: dateField, Value: dateSlot}
		}
		if spec.TimeDefaulted {
			return when{}, &FieldError{Field: timeField, Value: timeSlot}
		}
	}

	w := when{spec: spec, date: schedule.FormatDate(dateSlot), clock: schedule.FormatTime(timeSlot)}
	if spec.DateDefaulted {
		w.date = schedule.FormatWeekday(spec.Weekday)
	}
	if spec.TimeDefaulted {
		w.clock = schedule.FormatHour(spec.Hour)
	}
	return w, nil
}

// requireSlots returns a MissingSlotError naming every empty value, in order.
func requireSlots(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return &MissingSlotError{Fields: missing}
	}
	return nil
}

// count normalizes a count slot; field names the slot in errors.
func count(r slots.CountRange, raw, field string) (int, error) {
	n, err := r.Normalize(raw)
	if errors.Is(err, slots.ErrNoCount) {
		return 0, &MissingSlotError{Fields: []string{field}}
	}
	if err != nil {
		return 0, &FieldError{Field: field, Value: raw, Err: err}
	}
	return n, nil
}

func (s *Service) windowArgs() i18n.Args {
	h := restaurant.OpeningHours()
	return i18n.Args{"Open": h.Open, "Close": h.Close, "Last": h.LastBooking}
}

func (s *Service) sendEmail(kind notify.EmailKind, r reservations.Record, lang i18n.Language) {
	msg, err := notify.ReservationEmail(kind, r, s.info, s.tr, lang)
	if errors.Is(err, notify.ErrNoRecipient) {
		return
	}
	if err != nil {
		s.logger.Warn("reservation email not built", "kind", string(kind), "error", err)
		return
	}
	s.emails.SendAsync(msg)
}
