package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dagligdags/backend/config"
	httpDelivery "github.com/dagligdags/backend/internal/delivery/http"
	"github.com/dagligdags/backend/internal/infrastructure/cache"
	"github.com/dagligdags/backend/internal/infrastructure/dealfeed"
	"github.com/dagligdags/backend/internal/infrastructure/logger"
	"github.com/dagligdags/backend/internal/infrastructure/profilestore"
	"github.com/dagligdags/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapLogger.Info("starting Dagligdags backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("profile_backend", cfg.Profiles.Backend),
		zap.String("deal_source", cfg.Deals.Source),
	)

	// Initialize infrastructure dependencies
	store, err := profilestore.Open(ctx, profilestore.Options{
		Backend:     cfg.Profiles.Backend,
		Dir:         cfg.Profiles.Dir,
		SQLitePath:  cfg.Profiles.SQLitePath,
		PostgresDSN: cfg.Profiles.PostgresDSN,
	}, zapLogger)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}
	defer store.Close()

	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()
	profiles := cache.NewCachedProfiles(store, memoryCache, cfg.Cache.TTL, zapLogger)

	deals, err := dealfeed.Open(dealfeed.Options{
		Source:     cfg.Deals.Source,
		Dir:        cfg.Deals.Dir,
		FeedURL:    cfg.Deals.FeedURL,
		FeedAPIKey: cfg.Deals.FeedAPIKey,
	}, zapLogger)
	if err != nil {
		return fmt.Errorf("open deal source: %w", err)
	}

	// Initialize usecase layer
	matcher := usecase.NewDealMatcher(
		profiles,
		logger.NewMatchLog(zapLogger),
		cfg.Matching.DealMatcherConfig(),
		zapLogger,
	)
	optimizer := usecase.NewBasketOptimizer(profiles, usecase.DefaultBasketWeights(), zapLogger)

	handler := httpDelivery.NewHandler(matcher, optimizer, profiles, deals, zapLogger)
	router := httpDelivery.SetupRouter(cfg, handler, zapLogger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
