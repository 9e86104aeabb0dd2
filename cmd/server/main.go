package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docoutline/internal/api"
	"github.com/dgallion1/docoutline/internal/cache"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pathstore"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		log.Error("invalid engine options", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional outline cache.
	var outlineCache *cache.Cache
	var pipelineCache pipeline.OutlineCache
	if cfg.CachePath != "" {
		outlineCache, err = cache.Open(cfg.CachePath)
		if err != nil {
			log.Error("open cache failed", "path", cfg.CachePath, "error", err)
			os.Exit(1)
		}
		pipelineCache = outlineCache
	}

	// Optional publishing.
	var ps *pathstore.Client
	var publisher pipeline.Publisher
	var docs api.DocumentStore
	if cfg.PathstoreURL != "" {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		publisher = ps
		docs = ps
	}

	// Initialize pipeline.
	builder := outline.NewBuilder(opts, log)
	extractor := pipeline.NewExtractor(builder, pipelineCache, pipeline.NewStats(time.Hour), log)
	orch := pipeline.NewOrchestrator(cfg, extractor, publisher, log)
	orch.Start(ctx)

	if outlineCache != nil && cfg.CacheMaxAge > 0 {
		go pruneCache(ctx, outlineCache, cfg.CacheMaxAge, log)
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, docs, outlineCache, log, cfg)

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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()

		if ps != nil {
			ps.Close()
		}
		if outlineCache != nil {
			outlineCache.Close()
		}
	}()

	log.Info("starting docoutline",
		"port", cfg.Port,
		"workers", cfg.WorkerCount,
		"cache", cfg.CachePath != "",
		"publishing", publisher != nil,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// pruneCache drops outlines older than maxAge now and then daily.
func pruneCache(ctx context.Context, c *cache.Cache, maxAge time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		n, err := c.Prune(ctx, time.Now().Add(-maxAge))
		if err != nil {
			log.Warn("cache prune failed", "error", err)
		} else if n > 0 {
			log.Info("cache pruned", "removed", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

