package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/archive"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/archive/postgres"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/archive/sqlite"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/menu"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/pricing"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/promo"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/storage"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/pkg/logger"
)

const (
	breakerFailures = 5
	breakerCooldown = 30 * time.Second
	requestTimeout  = 60 * time.Second
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting restaurant ordering server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"storage", cfg.Storage.Backend,
		"archive", cfg.Archive.Backend,
		"log_level", cfg.LogLevel,
	)

	ctx := context.Background()

	kv, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to open storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	store := storage.NewStore(kv, log)
	defer store.Close()

	repo, err := openArchive(ctx, cfg.Archive)
	if err != nil {
		log.Error("failed to open order archive", "backend", cfg.Archive.Backend, "error", err)
		os.Exit(1)
	}
	if repo != nil {
		defer repo.Close()
	}

	// Promo codes: built-in table, with files or URLs merged on top
	promos := promo.NewTable(promo.DefaultCodes)
	if len(cfg.Pricing.PromoFiles) > 0 {
		if err := promos.LoadFromFiles(ctx, cfg.Pricing.PromoFiles); err != nil {
			log.Error("failed to load promo files", "error", err)
			os.Exit(1)
		}
	}
	if len(cfg.Pricing.PromoURLs) > 0 {
		if err := promos.LoadFromURLs(ctx, cfg.Pricing.PromoURLs); err != nil {
			log.Error("failed to load promo urls", "error", err)
			os.Exit(1)
		}
	}
	if len(cfg.Pricing.BulkFiles) > 0 {
		if err := promos.LoadBulkFromFiles(ctx, cfg.Pricing.BulkFiles, cfg.Pricing.BulkPercent); err != nil {
			log.Error("failed to load bulk promo files", "error", err)
			os.Exit(1)
		}
	}
	if len(cfg.Pricing.BulkURLs) > 0 {
		if err := promos.LoadBulkFromURLs(ctx, cfg.Pricing.BulkURLs, cfg.Pricing.BulkPercent); err != nil {
			log.Error("failed to load bulk promo urls", "error", err)
			os.Exit(1)
		}
	}
	stats := promos.Stats()
	log.Info("promo codes loaded",
		"total_codes", stats["total_codes"],
		"bulk_codes", stats["bulk_codes"],
		"total_sources", stats["total_sources"],
	)

	// Core state
	cartStore := cart.NewStore()
	catalog := menu.NewCatalog()
	engine := pricing.NewEngine(promos, cfg.Pricing.TaxRate)

	// Initialize services
	carts := service.NewCartService(cartStore, catalog, store, log)
	menus := service.NewMenuService(catalog, store, log)
	flow := checkout.NewFlow(cartStore, engine, promos, store, repo, log)

	service.NewSession(carts, menus, store, log).Start(ctx)

	// Initialize handlers
	router := handlers.NewRouter(handlers.Router{
		Health: handlers.NewHealthHandler(handlers.HealthInfo{
			Storage: cfg.Storage.Backend,
			Archive: cfg.Archive.Backend,
		}, promos, log),
		Menu:     handlers.NewMenuHandler(menus, log),
		Cart:     handlers.NewCartHandler(carts, engine, log),
		Promo:    handlers.NewPromoHandler(promos, log),
		Checkout: handlers.NewCheckoutHandler(flow, log),
	}, cfg.Auth, requestTimeout, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("server failed to start", "error", err)
		return
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}

	log.Info("server stopped gracefully")
}

// openStorage picks the KV backend. Remote backends sit behind a circuit
// breaker so an unreachable server fails fast instead of stalling requests.
func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.KV, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.Backend {
	case config.StorageRedis:
		client, err := storage.ConnectRedis(connectCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		kv := storage.NewRedisKV(client, cfg.Namespace)
		return storage.NewBreakerKV("redis", kv, breakerFailures, breakerCooldown), nil

	case config.StorageMongo:
		db, err := storage.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		kv := storage.NewMongoKV(db)
		return storage.NewBreakerKV("mongo", kv, breakerFailures, breakerCooldown), nil

	default:
		return storage.NewMemoryKV(), nil
	}
}

// openArchive returns nil when archiving is disabled
func openArchive(ctx context.Context, cfg config.ArchiveConfig) (archive.Repository, error) {
	switch cfg.Backend {
	case config.ArchiveSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
		return sqlite.Open(cfg.SQLitePath)

	case config.ArchivePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return postgres.Open(connectCtx, cfg.DatabaseURL)

	default:
		return nil, nil
	}
}
