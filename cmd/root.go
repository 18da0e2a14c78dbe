package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/shuv1824/flightsearch/internal/config"
	"github.com/shuv1824/flightsearch/internal/handler"
	"github.com/shuv1824/flightsearch/internal/services/flightapi"
	"github.com/shuv1824/flightsearch/internal/services/search"
	"github.com/shuv1824/flightsearch/internal/services/session"
	"github.com/shuv1824/flightsearch/internal/services/suggest"
)

func Run() error {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	cache := suggest.NewCache(cfg.Suggest.CacheSize)
	aggregator := suggest.NewAggregator(client, cache, cfg.Suggest)
	resolver := search.NewResolver(cache, client)
	results := search.NewService(client, cfg.Upstream, cfg.Results)

	sessions := session.NewStore(session.Deps{
		Aggregator: aggregator,
		Client:     client,
		Suggest:    cfg.Suggest,
		Calendar:   cfg.Calendar,
		Currency:   cfg.Upstream.Currency,
	}, cfg.Sessions)

	// Drop idle sessions in the background
	if err := sessions.StartSweeper(cfg.Sessions.Sweep); err != nil {
		return err
	}
	defer sessions.StopSweeper()

	searchHandler := handler.NewSearchHandler(aggregator, resolver, results, sessions, search.PathRouter{Path: "/search"})

	// Initialize router
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	// API v1 subrouter
	searchHandler.Routes(r.PathPrefix("/api/v1").Subrouter())

	var h http.Handler = r

	// Recovery (catches panics)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)

	// CORS
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)

	// Logging
	h = handlers.LoggingHandler(os.Stdout, h)

	slog.Info("starting api server", "mock_upstream", cfg.UseMock(), "currency", cfg.Upstream.Currency)

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return startServer(server)
}

// newClient picks the live flight API when a key is configured and the
// embedded fixtures otherwise.
func newClient(cfg *config.Config) (flightapi.Client, error) {
	if cfg.UseMock() {
		slog.Warn("no upstream api key configured, serving mock flight data", "env", config.APIKeyEnv)
		client, err := flightapi.NewMockClient()
		if err != nil {
			return nil, fmt.Errorf("failed to load mock data: %w", err)
		}
		return client, nil
	}
	return flightapi.NewHTTPClient(cfg.Upstream), nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func startServer(server *http.Server) error {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverError := make(chan error, 1)

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case err := <-serverError:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			_ = server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		slog.Info("server stopped gracefully")
	}

	return nil
}
