package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/deckgest/internal/api"
	"github.com/dgallion1/deckgest/internal/config"
	"github.com/dgallion1/deckgest/internal/pipeline"
	"github.com/dgallion1/deckgest/internal/present"
	"github.com/dgallion1/deckgest/internal/source"
	"github.com/dgallion1/deckgest/internal/summarize"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the summarizer. A nil generator means every build uses
	// the fallback aggregator.
	gen, err := summarize.NewGenerator(ctx, summarize.Provider{
		Name:           cfg.LLMProvider,
		Model:          cfg.LLMModel,
		APIKey:         cfg.LLMAPIKey(),
		BaseURL:        cfg.LLMBaseURL(),
		StaticResponse: cfg.StaticResponse,
	})
	if err != nil {
		log.Error("failed to create generator", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}
	summarizer := summarize.NewSummarizer(gen, summarize.Config{
		Policy:          cfg.Policy,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Temperature:     cfg.Temperature,
		Timeout:         cfg.SummarizeTimeout,
	}, summarize.NewLLMStats(time.Hour), log)

	// Initialize pipeline.
	builder := pipeline.NewBuilder(cfg.Policy, summarizer, log)
	fetcher := source.NewFetcher(cfg.FetchTimeout, cfg.MaxFetchBytes)
	if !cfg.FetchAllowPrivate {
		fetcher.DenyPrivateHosts()
	}

	var (
		publisher pipeline.Publisher
		presenter *present.Client
	)
	if cfg.PublishEnabled() {
		presenter = present.NewClient(cfg.PresenterURL, cfg.PresenterAPIKey, cfg.PresenterShareBase)
		publisher = presenter
	}

	orch := pipeline.NewOrchestrator(cfg, builder, fetcher, publisher, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, summarizer, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Stop taking requests before the queue closes.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}

		orch.Stop()

		if gen != nil {
			if err := gen.Close(); err != nil {
				log.Warn("close generator", "error", err)
			}
		}
		if presenter != nil {
			presenter.Close()
		}
	}()

	log.Info("starting deckgest",
		"port", cfg.Port,
		"provider", summarizer.Provider(),
		"model", summarizer.Model(),
		"publish", cfg.PublishEnabled(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
}
