package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shiddong/blog/internal/analyze"
	"github.com/shiddong/blog/internal/api"
	"github.com/shiddong/blog/internal/config"
	"github.com/shiddong/blog/internal/stats"
)

func main() {
	_ = godotenv.Load() // best-effort: load .env if present

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	analyzer := &analyze.Analyzer{
		Parsers:        cfg.ParserConfig(),
		WordsPerMinute: cfg.WordsPerMinute,
	}
	latency := stats.NewLatency(cfg.StatsWindow)

	srv := api.NewServer(analyzer, latency, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
	}()

	log.Info("starting blog text service",
		"port", cfg.Port,
		"toc_policy", cfg.TOCPolicy,
		"words_per_minute", cfg.WordsPerMinute,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
