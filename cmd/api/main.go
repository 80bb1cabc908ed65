package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/restaurant-webhook/cmd/mainconfig"
	"github.com/wolfman30/restaurant-webhook/internal/api/router"
	"github.com/wolfman30/restaurant-webhook/internal/app/bootstrap"
	appconfig "github.com/wolfman30/restaurant-webhook/internal/config"
	httpmiddleware "github.com/wolfman30/restaurant-webhook/internal/http/middleware"
	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting restaurant webhook server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	deps, err := awsDeps(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	app, err := bootstrap.Build(ctx, cfg, logger, deps)
	if err != nil {
		logger.Error("failed to wire webhook service", "error", err)
		os.Exit(1)
	}

	srv := newServer(cfg, app, logger)

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	// Queued confirmation emails finish before exit.
	app.Close()

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// awsDeps creates AWS clients only when a component is configured to use them.
func awsDeps(ctx context.Context, cfg *appconfig.Config) (bootstrap.Deps, error) {
	var deps bootstrap.Deps
	if !mainconfig.NeedsAWS(cfg) {
		return deps, nil
	}
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return deps, err
	}
	clients := mainconfig.NewClients(awsCfg, cfg)
	deps.S3 = clients.S3
	deps.SES = clients.SES
	return deps, nil
}

func newServer(cfg *appconfig.Config, app *bootstrap.App, logger *logging.Logger) *http.Server {
	var limiter *httpmiddleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	r := router.New(&router.Config{
		Logger:         logger,
		Webhook:        app.Handler,
		MetricsHandler: promhttp.Handler(),
		RateLimiter:    limiter,
		Status:         app.Snapshot,
	})

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
