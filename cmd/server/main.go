package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/mategest/internal/api"
	"github.com/dgallion1/mategest/internal/assessment"
	"github.com/dgallion1/mategest/internal/config"
	"github.com/dgallion1/mategest/internal/pipeline"
	"github.com/dgallion1/mategest/internal/profile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	gen, closeGen := newGenerator(cfg, log)
	var svc *profile.Service
	var profiles pipeline.ProfileGenerator
	if gen != nil {
		svc = profile.NewService(gen, profile.NewCache(cfg.ProfileCacheTTL, 0), profile.NewStats(cfg.StatsWindow), log)
		profiles = svc
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, assessment.NewExtractor(log), profiles, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, svc, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		closeGen()
	}()

	log.Info("starting mategest", "port", cfg.Port, "provider", cfg.Provider, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newGenerator builds the configured profile provider. It returns nil when
// generation is disabled.
func newGenerator(cfg config.Config, log *slog.Logger) (profile.Generator, func()) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return profile.NewGeminiClient(profile.NewKeyRing(cfg.GeminiAPIKeys), cfg.GeminiModels, log), func() {}
	case config.ProviderClaude:
		c := profile.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		return c, c.Close
	}
	return nil, func() {}
}
