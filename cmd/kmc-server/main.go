package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/anshcare/kmc-dashboard/internal/config"
	"github.com/anshcare/kmc-dashboard/internal/domain/dashboard"
	"github.com/anshcare/kmc-dashboard/internal/platform/auth"
	"github.com/anshcare/kmc-dashboard/internal/platform/db"
	"github.com/anshcare/kmc-dashboard/internal/platform/middleware"
	"github.com/anshcare/kmc-dashboard/internal/platform/store"
)

func main() {
	root := &cobra.Command{
		Use:   "kmc-server",
		Short: "KMC monitoring dashboard API server",
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	})
	root.AddCommand(snapshotCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// snapshotCmd fetches the collections once and prints the counts. Useful to
// check upstream connectivity without starting the server.
func snapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch one snapshot and print record counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			loader := store.NewLoader(store.NewPGSource(pool, cfg.RecordsTable), logger, cfg.ExcludeTestHospitals)
			snap, err := loader.Load(ctx)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(snap.Counts(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func runServer() error {
	// Logger
	logger := newLogger()

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Snapshot pipeline
	source := store.NewPGSource(pool, cfg.RecordsTable)
	loader := store.NewLoader(source, logger, cfg.ExcludeTestHospitals)
	cache := store.NewCache()

	// Load the first snapshot before serving. A failure is not fatal: the
	// refresher keeps retrying and metrics return 503 until a load succeeds.
	loadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	if err := cache.Refresh(loadCtx, loader); err != nil {
		logger.Warn().Err(err).Msg("initial snapshot load failed, serving without data")
	}
	cancel()

	refresher := store.NewRefresher(cache, loader, logger)
	if err := refresher.Start(cfg.RefreshSchedule); err != nil {
		logger.Fatal().Err(err).Msg("failed to start snapshot refresher")
	}
	defer refresher.Stop()

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware([]byte(cfg.AuthSecret)))
	}

	// Routes
	svc := dashboard.NewService(cache, loader, logger)
	dashboard.NewHandler(svc).RegisterRoutes(e.Group("/api/v1"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
