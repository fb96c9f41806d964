package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"syafa-store/internal/domain/order/store"
	"syafa-store/internal/pkg/config"
	"syafa-store/internal/pkg/middleware"
	"syafa-store/internal/pkg/registry"
	"syafa-store/pkg/database"
	"syafa-store/pkg/logger"
	"syafa-store/pkg/metrics"

	// Self-registering modules.
	_ "syafa-store/internal/domain/catalog"
	_ "syafa-store/internal/domain/order"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.App.Debug); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	orderStore, err := buildStore(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to init order store", zap.Error(err))
	}

	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to init redis", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	collector := metrics.NewCollector()

	router.Use(gin.Recovery())
	router.Use(middleware.TraceMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(rate.Limit(50), 100)))
	router.Use(cors.Default())
	router.Use(collector.Middleware())

	router.GET("/metrics", metrics.Handler())

	ctx := &registry.ModuleContext{
		Router:  router,
		Config:  cfg,
		Store:   orderStore,
		Redis:   rdb,
		Metrics: collector,
	}
	if err := registry.InitModules(ctx); err != nil {
		logger.Log.Fatal("Failed to init modules", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("Server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Forced shutdown", zap.Error(err))
	}
}

// buildStore picks the order store backend. Memory is the default; the
// records then live for the process lifetime only.
func buildStore(cfg *config.Config) (store.OrderStore, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.InitDatabase(cfg.Database)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(db), nil
	default:
		return store.NewMemoryStore(), nil
	}
}
