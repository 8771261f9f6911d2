package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/retailbridge/stylesync/internal/adapter/handler"
	"github.com/retailbridge/stylesync/internal/adapter/storage"
	"github.com/retailbridge/stylesync/internal/config"
	"github.com/retailbridge/stylesync/internal/core/service"
	"github.com/retailbridge/stylesync/internal/logger"
	"github.com/retailbridge/stylesync/internal/port"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog database
	catalogDB, err := sql.Open("postgres", cfg.Catalog.DSN())
	if err != nil {
		zlog.Fatal("failed to open catalog database", zap.Error(err))
	}
	catalogDB.SetMaxOpenConns(cfg.Catalog.MaxOpenConns)
	catalogDB.SetMaxIdleConns(cfg.Catalog.MaxIdleConns)
	catalogDB.SetConnMaxLifetime(5 * time.Minute)

	if err := catalogDB.PingContext(ctx); err != nil {
		zlog.Fatal("failed to ping catalog database", zap.Error(err))
	}
	zlog.Info("connected to catalog database")

	// Record system adapter, settings resolved per call
	var settings port.SettingsStore = storage.NewPostgresSettings(catalogDB, cfg.RecordSystem.Defaults())
	rms := storage.NewSQLRecordSystem(settings, cfg.Sync.TenantID, zlog)
	defer rms.Close()

	catalog := storage.NewPostgresCatalog(catalogDB)

	// Webhook ingestion, direct or queued
	var rdb *redis.Client
	var queue port.DecrementQueue
	if cfg.Webhook.QueueEnabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Fatal("failed to connect redis", zap.Error(err))
		}
		zlog.Info("connected to redis, decrement queue enabled")
		queue = storage.NewRedisDecrementQueue(rdb)
	}

	ingestor := service.NewOrderIngestor(rms, queue, cfg.Sync.TenantID, cfg.Webhook.MaxAttempts, zlog)

	var wg sync.WaitGroup
	if cfg.Webhook.QueueEnabled {
		for i := 0; i < cfg.Webhook.WorkerCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ingestor.RunWorker(ctx)
			}()
		}
		zlog.Info("started decrement workers", zap.Int("count", cfg.Webhook.WorkerCount))
	}

	// Sync engine + poller
	resolver := service.NewSuffixResolver()
	engine := service.NewSyncEngine(rms, catalog, resolver, cfg.Sync.TenantID, cfg.Sync.GraceWindow, zlog)
	poller := service.NewPoller(engine, cfg.Sync.PollInterval, zlog)

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(ctx)
	}()

	if cfg.Sync.SimulateSales {
		// Gate on the settings the adapter actually resolves, not the
		// process defaults: a tenant_settings row can point the tenant at
		// a live host even when the default is the simulation sentinel.
		resolved, err := settings.RecordSystemSettings(ctx, cfg.Sync.TenantID)
		if err != nil {
			zlog.Warn("failed to resolve record system settings, sale simulation disabled", zap.Error(err))
		} else if resolved.Simulation() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				runSaleSimulator(ctx, rms.Simulator(), cfg.Sync.PollInterval, zlog)
			}()
		} else {
			zlog.Info("sale simulation requested but record system is live, skipping",
				zap.String("host", resolved.Host))
		}
	}

	// HTTP server
	webhookHandler := handler.NewWebhookHandler(ingestor, engine, zlog)
	mux := http.NewServeMux()
	webhookHandler.Routes(mux)

	httpServer := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: mux,
	}

	go func() {
		zlog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			zlog.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	zlog.Info("HTTP server stopped")

	wg.Wait()
	zlog.Info("background loops stopped")

	if rdb != nil {
		rdb.Close()
	}
	catalogDB.Close()
	zlog.Info("connections closed")
}

// runSaleSimulator fakes a register sale each interval so the poller has
// something to pick up when running against the simulation backend.
func runSaleSimulator(ctx context.Context, sim *storage.SimulationRecordSystem, interval time.Duration, zlog *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sku := sim.SimulateSale()
			zlog.Debug("simulated sale", zap.String("sku", sku))
		}
	}
}
