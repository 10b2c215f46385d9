package main

import (
	"context"
	stdlog "log"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"LiveCatalog/internal/catalog"
	"LiveCatalog/internal/config"
	"LiveCatalog/pkg/kit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config: %v", err) // logger is configured from the config itself
	}

	service := "catalog"
	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal("store init failed", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal("upload dir init failed", zap.Error(err), zap.String("dir", cfg.UploadDir))
	}

	hub := catalog.NewHub()
	gen := catalog.NewGenerator(store, hub, log, cfg.GenerateInterval)
	defer gen.Stop()

	s := &catalog.Server{
		Store:         store,
		Hub:           hub,
		Gen:           gen,
		Prices:        catalog.NewPriceSimulator(cfg.PriceJitter),
		Log:           log,
		UploadDir:     cfg.UploadDir,
		UploadLimiter: kit.NewIPRateLimiter(cfg.UploadLimitPerMin, time.Minute),
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func newStore(cfg config.Config) (catalog.Store, error) {
	if cfg.Store != "postgres" {
		return catalog.NewMemStore(catalog.SeedCatalog()...), nil
	}

	db, err := catalog.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	store := catalog.NewPostgresStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}
