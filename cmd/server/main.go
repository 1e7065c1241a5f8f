package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docsight/docsight"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	addr := flag.String("addr", ":8080", "Listen address")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	noStore := flag.Bool("no-store", false, "Disable run archiving")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(*logLevel),
	})))

	cfg := docsight.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = docsight.LoadConfig(*configPath); err != nil {
			slog.Error("loading config", "error", err)
			os.Exit(1)
		}
	}

	// Environment overrides, then flags.
	if v := os.Getenv("DOCSIGHT_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("DOCSIGHT_ADDR"); v != "" {
		*addr = v
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *noStore {
		cfg.StoreResults = false
	}

	apiKey := os.Getenv("DOCSIGHT_API_KEY")
	corsOrigins := os.Getenv("DOCSIGHT_CORS_ORIGINS")

	engine, err := docsight.New(cfg)
	if err != nil {
		slog.Error("creating engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:         *addr,
		Handler:      newRouter(newHandler(engine), apiKey, corsOrigins),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // analyzing a large collection can exceed any fixed limit
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", *addr, "store", cfg.StoreResults)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
