// Package main is the entry point for the Slowish server.
// Slowish is a lightweight, storage-backed stand-in for a cloud object
// storage API, serving token auth, container and file operations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/slowish/internal/auth"
	"github.com/prn-tf/slowish/internal/config"
	"github.com/prn-tf/slowish/internal/handler"
	"github.com/prn-tf/slowish/internal/metrics"
	"github.com/prn-tf/slowish/internal/repository"
	"github.com/prn-tf/slowish/internal/repository/postgres"
	"github.com/prn-tf/slowish/internal/repository/sqlite"
	"github.com/prn-tf/slowish/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Logging)
	log.Logger = logger

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting slowish server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, dbHealth, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer dbHealth.Close()

	authService := service.NewAuthService(repos.User, cfg.Auth.TokenTTL, logger)
	accountService := service.NewAccountService(repos.Account, repos.Container, logger)
	containerService := service.NewContainerService(repos.Container, repos.File, logger)
	fileService := service.NewFileService(repos.Container, repos.File, logger)

	routerConfig := handler.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(authService, logger),
		AccountHandler:   handler.NewAccountHandler(accountService, logger),
		ContainerHandler: handler.NewContainerHandler(containerService, logger),
		FileHandler:      handler.NewFileHandler(containerService, fileService, logger),
		AuthMiddleware:   auth.Middleware(authService),
		Health:           dbHealth,
		Logger:           logger,
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		m := metrics.New()
		routerConfig.MetricsMiddleware = m.Middleware
		metricsServer = newMetricsServer(cfg.Metrics, m)

		go func() {
			logger.Info().Str("addr", metricsServer.Addr).Msg("metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	router := handler.NewRouter(routerConfig)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown failed")
		}
	}

	logger.Info().Msg("server stopped")
}

// openRepositories opens the configured database backend, applies
// migrations and returns the repository set plus a handle for health
// checks and shutdown.
func openRepositories(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repository.Repositories, repository.DatabaseHealth, error) {
	if cfg.Database.IsEmbedded() {
		dbCfg := sqlite.DefaultConfig(cfg.Database.Path)
		dbCfg.JournalMode = cfg.Database.JournalMode
		dbCfg.BusyTimeout = cfg.Database.BusyTimeout
		dbCfg.SynchronousMode = cfg.Database.SynchronousMode

		db, err := sqlite.NewDB(ctx, dbCfg, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewRepositories(db), db, nil
	}

	sqlDB, err := postgres.OpenSQL(cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.MigrateUp(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	sqlDB.Close()

	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewRepositories(db), db, nil
}

// newLogger builds the root logger from the logging configuration.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	if cfg.Format == "console" {
		writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		return zerolog.New(writer).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// newMetricsServer builds the scrape endpoint server.
func newMetricsServer(cfg config.MetricsConfig, m *metrics.Metrics) *http.Server {
	mux := http.NewServeMux()
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}
	mux.Handle(path, m.Handler())

	return &http.Server{
		Addr:        fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}
}
