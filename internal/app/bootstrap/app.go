package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"github.com/wolfman30/restaurant-webhook/internal/availability"
	appconfig "github.com/wolfman30/restaurant-webhook/internal/config"
	"github.com/wolfman30/restaurant-webhook/internal/i18n"
	"github.com/wolfman30/restaurant-webhook/internal/notify"
	"github.com/wolfman30/restaurant-webhook/internal/observability/metrics"
	"github.com/wolfman30/restaurant-webhook/internal/reservations"
	"github.com/wolfman30/restaurant-webhook/internal/restaurant"
	"github.com/wolfman30/restaurant-webhook/internal/webhook"
	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

// Deps carries clients the binaries construct. All fields are optional.
type Deps struct {
	// S3 fetches the occupancy model when MODEL_S3_BUCKET is set.
	S3 availability.S3GetAPI
	// SES delivers email when EMAIL_PROVIDER selects it.
	SES notify.SESAPI
	// Registerer receives the webhook metrics; nil means the default registry.
	Registerer prometheus.Registerer
	// SheetsOptions are appended to the Google Sheets client options.
	SheetsOptions []option.ClientOption
}

// App is the wired webhook service shared by the HTTP server and the Lambda.
type App struct {
	Service  *webhook.Service
	Handler  *webhook.Handler
	Emails   *notify.Dispatcher
	Metrics  *metrics.WebhookMetrics
	Status   map[string]string
	closers  []func()
	redis    *redis.Client
	resolver *availability.Resolver
}

// Build wires every component from cfg.
func Build(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, deps Deps) (*App, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	app := &App{Status: map[string]string{}}
	app.Metrics = metrics.NewWebhookMetrics(deps.Registerer)

	store, closeStore, err := BuildReservationStore(ctx, cfg, logger, deps.SheetsOptions...)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeStore)
	app.Status["store"] = cfg.StoreBackend

	app.resolver = availability.NewResolver(
		BuildPredictor(ctx, cfg, deps.S3, logger),
		availability.WithLogger(logger),
		availability.WithMetrics(app.Metrics),
	)
	app.Status["availability"] = "rules"
	if app.resolver.HasModel() {
		app.Status["availability"] = "model"
	}

	tr, err := i18n.NewTranslator(logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("bootstrap: translator: %w", err)
	}

	app.redis = BuildRedisClient(ctx, cfg, logger, true)
	prefs, prefsBackend := BuildPreferenceStore(app.redis)
	app.Status["preferences"] = prefsBackend

	sender, provider, reason := BuildEmailSender(cfg, deps.SES, logger)
	if reason != "" {
		logger.Warn("email delivery disabled", "reason", reason)
	}
	app.Status["email"] = provider
	app.Emails = notify.NewDispatcher(sender, cfg.EmailSendTimeout, logger, app.Metrics)

	app.Service, err = webhook.NewService(webhook.Config{
		Resolver:     app.resolver,
		Reservations: reservations.NewService(store, logger),
		Emails:       app.Emails,
		Translator:   tr,
		Preferences:  prefs,
		Restaurant: restaurant.Info{
			Name:    cfg.RestaurantName,
			Phone:   cfg.RestaurantPhone,
			Email:   cfg.RestaurantEmail,
			Address: cfg.RestaurantAddress,
			MapsURL: cfg.RestaurantMapsURL,
		},
		DefaultLanguage: i18n.Language(cfg.DefaultLanguage),
		StrictTemporal:  cfg.StrictTemporalParsing,
		Logger:          logger,
		Metrics:         app.Metrics,
	})
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Handler = webhook.NewHandler(app.Service, logger)

	logger.Info("webhook service ready",
		"store", app.Status["store"],
		"availability", app.Status["availability"],
		"preferences", prefsBackend,
		"email", provider,
		"strict_temporal", cfg.StrictTemporalParsing,
	)
	return app, nil
}

// Snapshot returns a copy of the component status for /health.
func (a *App) Snapshot() map[string]string {
	out := make(map[string]string, len(a.Status))
	for k, v := range a.Status {
		out[k] = v
	}
	return out
}

// Close waits for queued emails and releases connections.
func (a *App) Close() {
	if a == nil {
		return
	}
	a.Emails.Wait()
	if a.redis != nil {
		_ = a.redis.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
