package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Simplici0/scrapboard/internal/catalog"
	"github.com/Simplici0/scrapboard/internal/config"
	"github.com/Simplici0/scrapboard/internal/db"
	"github.com/Simplici0/scrapboard/internal/logging"
	"github.com/Simplici0/scrapboard/internal/metrics"
	"github.com/Simplici0/scrapboard/internal/migrations"
	"github.com/Simplici0/scrapboard/internal/seed"
	"github.com/Simplici0/scrapboard/internal/spot"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(logging.Options{
		Service: "scrapboard",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}
	schema, err := migrations.Version(database)
	if err != nil {
		log.Fatalf("failed to read schema version: %v", err)
	}

	def, err := loadDefinition(cfg.CatalogFile)
	if err != nil {
		log.Fatalf("failed to read catalog definition: %v", err)
	}
	stats, err := seed.Run(database, def)
	if err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}
	logger.Info("catalog seeded", "schema", schema, "version", def.Version, "inserts", stats.Inserts, "updates", stats.Updates)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	template, err := catalog.Load(ctx, database)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	m := metrics.Default()
	srv := &server{
		template: template,
		feed:     spot.NewFeed(cfg.SpotFeedURL, cfg.FeedTimeout, logger, m),
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(srv, cfg.IsDev()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Covers the outbound spot fetch.
		WriteTimeout: cfg.FeedTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr, "feed", cfg.SpotFeedURL, "catalog", template.Version)
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			_ = httpServer.Close()
			log.Fatalf("shutdown: %v", err)
		}
	case err := <-errs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}
}

func loadDefinition(path string) (catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.ReadFile(path)
}
