package cli

import (
	"context"
	"fmt"

	"github.com/dagligdags/backend/config"
	"github.com/dagligdags/backend/internal/domain"
	"github.com/dagligdags/backend/internal/infrastructure/dealfeed"
	"github.com/dagligdags/backend/internal/infrastructure/logger"
	"github.com/dagligdags/backend/internal/infrastructure/profilestore"
	"github.com/dagligdags/backend/internal/usecase"
	"go.uber.org/zap"
)

// app holds the services a command needs
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	profiles  profilestore.Store
	deals     domain.DealSource
	matcher   *usecase.DealMatcher
	optimizer *usecase.BasketOptimizer
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return nil, err
	}

	zapLogger := zap.NewNop()
	if opts.verbose {
		if zapLogger, err = logger.New("debug"); err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
	}

	store, err := profilestore.Open(ctx, profilestore.Options{
		Backend:     cfg.Profiles.Backend,
		Dir:         cfg.Profiles.Dir,
		SQLitePath:  cfg.Profiles.SQLitePath,
		PostgresDSN: cfg.Profiles.PostgresDSN,
	}, zapLogger)
	if err != nil {
		return nil, fmt.Errorf("open profile store: %w", err)
	}

	deals, err := dealfeed.Open(dealfeed.Options{
		Source:     cfg.Deals.Source,
		Dir:        cfg.Deals.Dir,
		FeedURL:    cfg.Deals.FeedURL,
		FeedAPIKey: cfg.Deals.FeedAPIKey,
	}, zapLogger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open deal source: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   zapLogger,
		profiles: store,
		deals:    deals,
		matcher: usecase.NewDealMatcher(
			store,
			logger.NewMatchLog(zapLogger),
			cfg.Matching.DealMatcherConfig(),
			zapLogger,
		),
		optimizer: usecase.NewBasketOptimizer(store, usecase.DefaultBasketWeights(), zapLogger),
	}, nil
}

// loadDeals reads deals from path when given, otherwise from the configured source
func (a *app) loadDeals(ctx context.Context, path string) ([]domain.Deal, error) {
	if path != "" {
		return dealfeed.ReadDealsFile(path)
	}
	return a.deals.ListDeals(ctx)
}

func (a *app) close() {
	_ = a.logger.Sync()
	if err := a.profiles.Close(); err != nil {
		a.logger.Warn("failed to close profile store", zap.Error(err))
	}
}
