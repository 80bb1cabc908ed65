package webhook

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/restaurant-webhook/internal/availability"
	"github.com/wolfman30/restaurant-webhook/internal/i18n"
	"github.com/wolfman30/restaurant-webhook/internal/notify"
	"github.com/wolfman30/restaurant-webhook/internal/observability/metrics"
	"github.com/wolfman30/restaurant-webhook/internal/reservations"
	"github.com/wolfman30/restaurant-webhook/internal/restaurant"
	"github.com/wolfman30/restaurant-webhook/internal/slots"
)

var testVenue = restaurant.Info{
	Name:    "La Tavola",
	Phone:   "+41 44 123 45 67",
	Email:   "hello@latavola.example",
	Address: "Bahnhofstrasse 12, 8001 Zurich",
	MapsURL: "https://maps.example/latavola",
}

type outbox struct {
	mu   sync.Mutex
	sent []notify.EmailMessage
}

func (o *outbox) Send(_ context.Context, msg notify.EmailMessage) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) messages() []notify.EmailMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]notify.EmailMessage(nil), o.sent...)
}

// freeTables reports only the listed tables as free and counts lookups.
type freeTables struct {
	mu    sync.Mutex
	free  map[int]bool
	calls int
}

func tables(free ...int) *freeTables {
	f := &freeTables{free: map[int]bool{}}
	for _, n := range free {
		f.free[n] = true
	}
	return f
}

func (f *freeTables) IsOccupied(_ context.Context, in availability.Features) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return !f.free[in.Table], nil
}

func (f *freeTables) lookups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type panickingPredictor struct{}

func (panickingPredictor) IsOccupied(context.Context, availability.Features) (bool, error) {
	panic("model exploded")
}

type fixture struct {
	svc     *Service
	store   reservations.Store
	mail    *outbox
	emails  *notify.Dispatcher
	reg     *prometheus.Registry
	tr      *i18n.Translator
	metrics *metrics.WebhookMetrics
}

type fixtureOption func(*Config, *fixture)

func withPredictor(p availability.Predictor) fixtureOption {
	return func(cfg *Config, f *fixture) {
		cfg.Resolver = availability.NewResolver(p, availability.WithMetrics(f.metrics))
	}
}

func withStore(s reservations.Store) fixtureOption {
	return func(cfg *Config, f *fixture) {
		f.store = s
		cfg.Reservations = reservations.NewService(s, nil)
	}
}

func lenient() fixtureOption {
	return func(cfg *Config, _ *fixture) { cfg.StrictTemporal = false }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	tr, err := i18n.NewTranslator(nil)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.NewWebhookMetrics(reg)
	f := &fixture{mail: &outbox{}, reg: reg, tr: tr, metrics: m}
	f.emails = notify.NewDispatcher(f.mail, 0, nil, m)
	f.store = reservations.NewMemoryStore()

	cfg := Config{
		Resolver:        availability.NewResolver(nil, availability.WithMetrics(m)),
		Reservations:    reservations.NewService(f.store, nil),
		Emails:          f.emails,
		Translator:      tr,
		Preferences:     i18n.NewMemoryPreferenceStore(),
		Restaurant:      testVenue,
		DefaultLanguage: i18n.English,
		StrictTemporal:  true,
		Metrics:         m,
	}
	for _, opt := range opts {
		opt(&cfg, f)
	}
	f.svc, err = NewService(cfg)
	require.NoError(t, err)
	return f
}

func (f *fixture) handle(intent string, params map[string]string) Response {
	p := slots.Params{}
	for k, v := range params {
		p[k] = slots.Str(v)
	}
	resp := f.svc.Handle(context.Background(), Request{
		Session:     "projects/test/agent/sessions/abc",
		QueryResult: QueryResult{Intent: Intent{DisplayName: intent}, Parameters: p, LanguageCode: "en"},
	})
	f.emails.Wait()
	return resp
}

func (f *fixture) records(t *testing.T) []reservations.Record {
	t.Helper()
	all, err := f.store.FindAll(context.Background())
	require.NoError(t, err)
	return all
}

func janeDoe() map[string]string {
	return map[string]string{
		"name":   "Jane Doe",
		"phone":  "0771234567",
		"email":  "jane@x.com",
		"guests": "four",
		"date":   "2025-06-23T12:00:00+02:00",
		"time":   "19:00",
	}
}

func booked(date, clock string, table int) reservations.Record {
	return reservations.Record{
		Timestamp: "2025-06-01 10:00:00",
		Name:      "Jane Doe",
		Phone:     "0771234567",
		Email:     "jane@x.com",
		Guests:    4,
		Date:      date,
		Time:      clock,
		Table:     table,
		Status:    reservations.StatusConfirmed,
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	tr, err := i18n.NewTranslator(nil)
	require.NoError(t, err)
	_, err = NewService(Config{Translator: tr, Reservations: reservations.NewService(reservations.NewMemoryStore(), nil)})
	assert.Error(t, err)
	_, err = NewService(Config{Resolver: availability.NewResolver(nil), Translator: tr})
	assert.Error(t, err)
	_, err = NewService(Config{Resolver: availability.NewResolver(nil), Reservations: reservations.NewService(reservations.NewMemoryStore(), nil)})
	assert.Error(t, err)
}

func TestMakeReservationEndToEnd(t *testing.T) {
	f := newFixture(t)

	resp := f.handle(IntentMakeReservation, janeDoe())

	require.Len(t, resp.FulfillmentMessages, 3)
	assert.Contains(t, resp.FulfillmentText, "Jane Doe")
	assert.Contains(t, resp.FulfillmentText, "Table 10 for 4 guests on Monday, June 23, 2025 at 7:00 PM")
	assert.Contains(t, resp.FulfillmentText, "jane@x.com")

	records := f.records(t)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "Monday, June 23, 2025", r.Date)
	assert.Equal(t, "7:00 PM", r.Time)
	assert.Equal(t, 10, r.Table)
	assert.Equal(t, availability.Medium, availability.ClassOf(r.Table))
	assert.Equal(t, 4, r.Guests)
	assert.Equal(t, reservations.StatusConfirmed, r.Status)
	assert.NotEmpty(t, r.Timestamp)

	mail := f.mail.messages()
	require.Len(t, mail, 1)
	assert.Equal(t, "jane@x.com", mail[0].To)
	assert.Contains(t, mail[0].Body, "Monday, June 23, 2025")

	assert.Equal(t, 1.0, counterValue(t, f.reg, "restaurant_webhook_requests_total", IntentMakeReservation, "ok"))
}

func TestMakeReservationPrefersMediumTableFromPredictor(t *testing.T) {
	f := newFixture(t, withPredictor(tables(3, 12, 18)))
	resp := f.handle(IntentMakeReservation, janeDoe())
	assert.Contains(t, resp.FulfillmentText, "Table 12")
}

func TestMakeReservationRejectsDuplicateBeforeTableSearch(t *testing.T) {
	predictor := tables(1, 2, 3)
	f := newFixture(t, withStore(reservations.NewMemoryStore(booked("Monday, June 23, 2025", "7:00 PM", 10))), withPredictor(predictor))

	params := janeDoe()
	params["name"] = "jane doe"
	resp := f.handle(IntentMakeReservation, params)

	assert.Contains(t, resp.FulfillmentText, "already have a reservation on Monday, June 23, 2025 at 7:00 PM")
	assert.Zero(t, predictor.lookups())
	assert.Len(t, f.records(t), 1)
	assert.Empty(t, f.mail.messages())
}

func TestMakeReservationFullyBooked(t *testing.T) {
	f := newFixture(t, withPredictor(tables()))
	resp := f.handle(IntentMakeReservation, janeDoe())
	assert.Contains(t, resp.FulfillmentText, "fully booked")
	assert.Empty(t, f.records(t))
}

func TestMakeReservationMissingSlots(t *testing.T) {
	f := newFixture(t)
	resp := f.handle(IntentMakeReservation, map[string]string{"name": "Jane Doe", "date": "2025-06-23"})

	assert.Equal(t, "To continue I still need your phone number, your email address and the time.", resp.FulfillmentText)
	assert.Equal(t, 1.0, counterValue(t, f.reg, "restaurant_webhook_requests_total", IntentMakeReservation, "missing_slot"))
}

func TestMakeReservationValidation(t *testing.T) {
	cases := []struct {
		name   string
		change map[string]string
		want   string
	}{
		{"guests out of range", map[string]string{"guests": "25"}, "between 1 and 20 guests"},
		{"bad phone", map[string]string{"phone": "12"}, "phone number does not look right"},
		{"bad email", map[string]string{"email": "jane-at-x"}, "email address does not look right"},
		{"unparseable date", map[string]string{"date": "someday"}, "could not understand the date someday"},
		{"unparseable time", map[string]string{"time": "dinner"}, "could not understand the time dinner"},
		{"too early", map[string]string{"time": "7 AM"}, "7:00 AM is before we open at 9:00 AM"},
		{"too late", map[string]string{"time": "22:30"}, "10:00 PM is too late: our last reservation is at 9:00 PM"},
		{"far too late", map[string]string{"time": "23:00"}, "11:00 PM is too late"},
		{"off the clock", map[string]string{"time": "25:00"}, "25:00 is too late"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			params := janeDoe()
			for k, v := range tc.change {
				params[k] = v
			}
			resp := f.handle(IntentMakeReservation, params)
			assert.Contains(t, resp.FulfillmentText, tc.want)
			assert.Empty(t, f.records(t))
		})
	}
}

func TestMakeReservationLenientParsingUsesDefaults(t *testing.T) {
	f := newFixture(t, lenient())
	params := janeDoe()
	params["date"] = "someday"
	params["time"] = "dinner"

	resp := f.handle(IntentMakeReservation, params)
	assert.Contains(t, resp.FulfillmentText, "Saturday at 7:00 PM")
	require.Len(t, f.records(t), 1)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t, withPredictor(tables(10, 17)))
	resp := f.handle(IntentCheckAvailability, map[string]string{"date": "2025-06-28", "time": "7 PM"})
	assert.Equal(t, "Good news! We have 2 tables free on Saturday, June 28, 2025 at 7:00 PM. Table 10 would suit a party of 2.", resp.FulfillmentText)

	f = newFixture(t, withPredictor(tables()))
	resp = f.handle(IntentCheckAvailability, map[string]string{"date": "2025-06-28", "time": "7 PM"})
	assert.Contains(t, resp.FulfillmentText, "no free tables")
}

func TestCheckTableSpecific(t *testing.T) {
	f := newFixture(t, withPredictor(tables(5)))

	resp := f.handle(IntentCheckTable, map[string]string{"table_number": "5", "date": "2025-06-23", "time": "1 PM"})
	assert.Equal(t, "Table 5 is free on Monday, June 23, 2025 at 1:00 PM.", resp.FulfillmentText)

	resp = f.handle(IntentCheckTable, map[string]string{"table_number": "six", "date": "2025-06-23", "time": "1 PM"})
	assert.Contains(t, resp.FulfillmentText, "Table 6 is taken")

	resp = f.handle(IntentCheckTable, map[string]string{"date": "2025-06-23", "time": "1 PM"})
	assert.Contains(t, resp.FulfillmentText, "the table number")

	resp = f.handle(IntentCheckTable, map[string]string{"table_number": "40", "date": "2025-06-23", "time": "1 PM"})
	assert.Contains(t, resp.FulfillmentText, "numbered 1 to 20")
}

func TestInformationIntents(t *testing.T) {
	f := newFixture(t)

	menu := f.handle(IntentShowMenu, nil)
	require.Len(t, menu.FulfillmentMessages, 6)
	assert.True(t, strings.HasPrefix(menu.FulfillmentMessages[1].Text.Text[0], "Starters: "))

	hours := f.handle(IntentOpeningHours, nil)
	assert.Equal(t, []string{"Our opening hours:", "Every day from 9:00 AM to 11:00 PM.", "The last reservation is at 9:00 PM."}, bubbles(hours))

	info := f.handle(IntentRestaurantInfo, nil)
	assert.Len(t, info.FulfillmentMessages, 5)
	assert.Contains(t, info.FulfillmentText, testVenue.Address)

	assert.Contains(t, f.handle(IntentContactHuman, nil).FulfillmentText, testVenue.Phone)
	assert.Contains(t, f.handle(IntentLocation, nil).FulfillmentText, testVenue.MapsURL)
}

func TestRequireSlotsNamesEmptyValuesInOrder(t *testing.T) {
	assert.NoError(t, requireSlots("phone", "0771234567", "date", "2025-06-23"))

	err := requireSlots("name", " ", "phone", "0771234567", "time", "")
	var missing *MissingSlotError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"name", "time"}, missing.Fields)
}

func TestUnknownIntentWelcomes(t *testing.T) {
	f := newFixture(t)
	resp := f.handle("smalltalk.greeting", nil)
	assert.Equal(t, f.tr.T(i18n.English, "welcome", i18n.Args{"Restaurant": testVenue.Name}), resp.FulfillmentText)
	assert.Equal(t, 1.0, counterValue(t, f.reg, "restaurant_webhook_requests_total", "unknown", "unknown_intent"))
}

func TestLanguageSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := "projects/test/agent/sessions/fr"

	resp := f.svc.Handle(ctx, Request{Session: session, QueryResult: QueryResult{
		Intent:     Intent{DisplayName: IntentContactHuman},
		Parameters: slots.Params{"language": slots.Str("français")},
	}})
	assert.Equal(t, f.tr.T(i18n.French, "contact.human", i18n.Args{"Phone": testVenue.Phone, "Email": testVenue.Email}), resp.FulfillmentText)

	resp = f.svc.Handle(ctx, Request{Session: session, QueryResult: QueryResult{
		Intent:       Intent{DisplayName: IntentContactHuman},
		LanguageCode: "en",
	}})
	assert.Equal(t, f.tr.T(i18n.French, "contact.human", i18n.Args{"Phone": testVenue.Phone, "Email": testVenue.Email}), resp.FulfillmentText)

	resp = f.svc.Handle(ctx, Request{Session: "other", QueryResult: QueryResult{
		Intent:       Intent{DisplayName: "nothing"},
		LanguageCode: "es-ES",
	}})
	assert.Equal(t, f.tr.T(i18n.Spanish, "welcome", i18n.Args{"Restaurant": testVenue.Name}), resp.FulfillmentText)
}

func TestPanickingPredictorStillBooks(t *testing.T) {
	f := newFixture(t, withPredictor(panickingPredictor{}))
	resp := f.handle(IntentMakeReservation, janeDoe())
	assert.Contains(t, resp.FulfillmentText, "Jane Doe")
	assert.NotContains(t, resp.FulfillmentText, "Sorry")
	require.Len(t, f.records(t), 1)
}

func TestPanicBecomesApology(t *testing.T) {
	f := newFixture(t)
	f.svc.handlers[IntentCheckAvailability] = func(context.Context, *turn) (Response, error) {
		panic("handler exploded")
	}
	resp := f.handle(IntentCheckAvailability, map[string]string{"date": "2025-06-23", "time": "7 PM"})
	assert.Contains(t, resp.FulfillmentText, testVenue.Phone)
	assert.Contains(t, resp.FulfillmentText, "Sorry")
	assert.Equal(t, 1.0, counterValue(t, f.reg, "restaurant_webhook_requests_total", IntentCheckAvailability, "panic"))
}

type downStore struct{}

var errDown = fmt.Errorf("%w: test: connection refused", reservations.ErrUnavailable)

func (downStore) Append(context.Context, reservations.Record) error { return errDown }
func (downStore) FindAll(context.Context) ([]reservations.Record, error) { return nil, errDown }
func (downStore) FindByPhone(context.Context, string) ([]reservations.Record, error) {
	return nil, errDown
}
func (downStore) UpdateField(context.Context, reservations.Key, reservations.Field, string) (bool, error) {
	return false, errDown
}
func (downStore) Delete(context.Context, reservations.Key) (bool, error) { return false, errDown }

func TestStoreUnavailable(t *testing.T) {
	f := newFixture(t, withStore(downStore{}))
	resp := f.handle(IntentMakeReservation, janeDoe())
	assert.Contains(t, resp.FulfillmentText, "could not reach our reservation book")
	assert.Equal(t, 1.0, counterValue(t, f.reg, "restaurant_webhook_requests_total", IntentMakeReservation, "backend_unavailable"))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels ...string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			values := map[string]bool{}
			for _, lp := range m.GetLabel() {
				values[lp.GetValue()] = true
			}
			for _, want := range labels {
				if !values[want] {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
