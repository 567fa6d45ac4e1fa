// cmd/solve-server/main.go — HTTP tool server for gosolve
//
// Exposes the solver tools as an HTTP endpoint for agent frameworks.
//
// Usage:
//
//	go run ./cmd/solve-server -config solve-server.yaml -port 8080
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("Error reading config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Port = *port
	}

	logger, closer := initLogger(cfg.Log)
	defer closer.Close()
	slog.SetDefault(logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(cfg, logger),
		ReadHeaderTimeout: cfg.Timeouts.ReadHeader,
		ReadTimeout:       cfg.Timeouts.Read,
		WriteTimeout:      cfg.Timeouts.Write,
		IdleTimeout:       cfg.Timeouts.Idle,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("gosolve tool server listening", slog.String("addr", addr), slog.Bool("gzip", cfg.Gzip))
	logger.Info("routes", slog.String("tool", "POST /tool"), slog.String("schema", "GET /schema"), slog.String("health", "GET /health"))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
