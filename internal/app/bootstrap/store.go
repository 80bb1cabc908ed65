package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/option"

	appconfig "github.com/wolfman30/restaurant-webhook/internal/config"
	"github.com/wolfman30/restaurant-webhook/internal/reservations"
	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

// Store backends selectable with STORE_BACKEND.
const (
	StoreSheets   = "sheets"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// BuildReservationStore opens the configured reservation backend. The
// returned close function releases its connections and is never nil.
func BuildReservationStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, sheetsOpts ...option.ClientOption) (reservations.Store, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}

	switch backend := strings.ToLower(strings.TrimSpace(cfg.StoreBackend)); backend {
	case StoreSheets:
		opts := append([]option.ClientOption(nil), sheetsOpts...)
		if cfg.GoogleCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
		}
		store, err := reservations.NewSheetsStore(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsWorksheet, opts...)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap: sheets store: %w", err)
		}
		logger.Info("reservation store ready", "backend", backend, "worksheet", cfg.SheetsWorksheet)
		return store, noop, nil

	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("bootstrap: DATABASE_URL required for the postgres store")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap: connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("bootstrap: ping postgres: %w", err)
		}
		logger.Info("reservation store ready", "backend", backend)
		return reservations.NewPostgresStore(pool), pool.Close, nil

	case StoreMemory, "":
		logger.Warn("using in-memory reservation store; bookings are lost on restart")
		return reservations.NewMemoryStore(), noop, nil

	default:
		return nil, noop, fmt.Errorf("bootstrap: unknown store backend %q", backend)
	}
}
