package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/facegate/internal/cache"
	"github.com/kozaktomas/facegate/internal/config"
	"github.com/kozaktomas/facegate/internal/deepface"
	"github.com/kozaktomas/facegate/internal/facematch"
	"github.com/kozaktomas/facegate/internal/neighborhoods"
	"github.com/kozaktomas/facegate/internal/telemetry"
	"github.com/kozaktomas/facegate/internal/telemetry/couchdb"
	"github.com/kozaktomas/facegate/internal/web"
	"github.com/kozaktomas/facegate/internal/web/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Facegate HTTP API.
Face routes need a reachable DeepFace server, the records routes need a
database, and the webhook is mounted only when JWT_SECRET and COUCHDB_URL
are both set.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command, cfg config.WebConfig) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if cfg.Port > 0 {
		port = cfg.Port
	}
	if cfg.Host != "" {
		host = cfg.Host
	}
	return port, host
}

// newTelemetry wires the webhook dependencies. Both are nil when the
// webhook is not configured.
func newTelemetry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*telemetry.Service, *middleware.TokenValidator, error) {
	if cfg.JWT.Secret == "" || cfg.CouchDB.URL == "" {
		logger.Warn("webhook disabled, JWT_SECRET and COUCHDB_URL are required")
		return nil, nil, nil
	}

	validator, err := middleware.NewTokenValidator(cfg.JWT)
	if err != nil {
		return nil, nil, err
	}
	sink, err := couchdb.New(cfg.CouchDB, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := sink.EnsureDatabase(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to prepare CouchDB database: %w", err)
	}
	logger.Info("telemetry webhook enabled", "database", cfg.CouchDB.Database)
	return telemetry.NewService(sink), validator, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := newLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, closeStore, err := openCacheStore(ctx, cfg.Cache, logger)
	if err != nil {
		return fmt.Errorf("failed to open cache store: %w", err)
	}
	defer closeStore()
	c := cache.New(store, logger, cache.NewMetrics(registry))

	deps := web.Deps{Registry: registry, Logger: logger}

	df := deepface.NewClient(cfg.DeepFace.URL, cfg.DeepFace.Model)
	deps.Matcher = facematch.NewMatcher(df, df)
	if cfg.Cache.ResultTTL > 0 {
		deps.Matcher = deps.Matcher.WithResultCache(c, cache.TTL(cfg.Cache.ResultTTL))
	}
	logger.Info("face analysis configured", "url", cfg.DeepFace.URL, "model", df.Model())

	if cfg.Database.URL != "" {
		repo, closeDB, err := openDatabase(&cfg.Database, logger)
		if err != nil {
			return err
		}
		defer closeDB()
		deps.Neighborhoods = neighborhoods.NewService(repo, c, cache.TTL(cfg.Cache.RecordTTL))
	} else {
		logger.Warn("records routes disabled, DATABASE_URL is not set")
	}

	deps.Telemetry, deps.TokenValidator, err = newTelemetry(ctx, cfg, logger)
	if err != nil {
		return err
	}

	port, host := resolveServeHostPort(cmd, cfg.Web)
	server := web.NewServer(cfg, port, host, deps)

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("error during shutdown", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
