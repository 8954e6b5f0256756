package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"scribe/internal/config"
	"scribe/internal/daemon"
	"scribe/internal/extractcache"
	"scribe/internal/extraction"
	"scribe/internal/logging"
	"scribe/internal/orchestrator"
	"scribe/internal/tasks"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := tasks.Open(cfg)
	if err != nil {
		logger.Error("open task store", logging.Error(err))
		return
	}

	extractor := extraction.NewClient(extraction.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	cache := extractcache.New(
		time.Duration(cfg.Enrichment.CacheTTLSeconds)*time.Second,
		cfg.Enrichment.CacheCapacity,
		logger,
	)
	orch := orchestrator.New(cfg, store, extractor, cache, logger)

	d, err := daemon.New(cfg, store, orch, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("scribed shutting down")
}
