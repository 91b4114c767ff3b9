package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deepluxmed/medscales/internal/api"
	"github.com/deepluxmed/medscales/internal/catalog"
	"github.com/deepluxmed/medscales/internal/config"
	"github.com/deepluxmed/medscales/internal/db"
	"github.com/deepluxmed/medscales/internal/middleware"
	"github.com/deepluxmed/medscales/internal/services"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medscales",
		Short: "Clinical assessment scales API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabasePath == "" {
				return errors.New("DATABASE_PATH is required for migrate")
			}
			store, err := db.Open(cfg.DatabasePath, cfg.RecentLimit)
			if err != nil {
				return err
			}
			return store.Close()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	var store api.Store
	if cfg.DatabasePath == "" {
		logger.Warn().Msg("no DATABASE_PATH configured, assessments will not survive restarts")
		store = api.NewMemoryStore(cfg.RecentLimit)
	} else {
		sqlStore, err := db.Open(cfg.DatabasePath, cfg.RecentLimit)
		if err != nil {
			return err
		}
		defer sqlStore.Close()
		store = sqlStore
		logger.Info().Str("path", cfg.DatabasePath).Msg("sqlite store ready")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.CORS(cfg.CORSOrigins))

	renderer := services.NewFileRenderer(cfg.ExportDir)
	srv := api.NewServer(catalog.Builtin(), store, renderer)
	srv.Register(e)

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
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
