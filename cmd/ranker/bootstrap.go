package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"stock-ranker/internal/interfaces"
	"stock-ranker/internal/logger"
	"stock-ranker/internal/marketdata"
	"stock-ranker/internal/marketdata/marketdataobs"
	"stock-ranker/internal/news"
	"stock-ranker/internal/news/newsobs"
	"stock-ranker/internal/notify"
	"stock-ranker/internal/ranking"
	"stock-ranker/internal/ranking/rankingobs"
	"stock-ranker/internal/resultstore"
	"stock-ranker/internal/store"
	"stock-ranker/internal/trace"
)

// initializeSystem loads .env and starts logging and tracing
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeApp wires every collaborator named in the config
func initializeApp(ctx context.Context, cfg *store.Config) (*app, error) {
	tables, err := ranking.Load(cfg.TablesPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load keyword tables", err, "path", cfg.TablesPath)
		return nil, err
	}

	engine, err := ranking.NewEngine(tables)
	if err != nil {
		return nil, err
	}

	collector, err := news.NewServiceFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if len(cfg.News.Sources) == 0 {
		logger.Warn(ctx, "No news sources configured, rankings will be empty")
	}

	results, closeStore, err := resultstore.New(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open result store", err, "backend", cfg.Output.Backend)
		return nil, err
	}

	a := &app{
		cfg:        cfg,
		analyzer:   rankingobs.Wrap(engine),
		collector:  newsobs.Wrap(collector),
		results:    results,
		closeStore: closeStore,
		notifier:   initializeNotifier(ctx, cfg),
		now:        nowIn(cfg),
	}
	if cfg.GlobalMarket.Enabled {
		a.snapshotter = marketdataobs.WrapSnapshotter(marketdata.NewMarketSnapshotter(cfg))
	}
	if fs, ok := results.(*resultstore.FileStore); ok {
		a.compressor = fs
	}

	logger.Info(ctx, "Ranker initialized",
		"sectors", len(tables.Sectors),
		"news_sources", len(cfg.News.Sources),
		"backend", cfg.Output.Backend,
		"market_data", cfg.MarketData.Provider,
		"global_market", cfg.GlobalMarket.Enabled,
		"slack", a.notifier != nil,
	)
	return a, nil
}

// initializeReturnSource is built lazily: only validate and weekly need it
func initializeReturnSource(ctx context.Context, cfg *store.Config) (interfaces.ReturnSource, error) {
	source, err := marketdata.NewReturnSource(cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize return source", err, "provider", cfg.MarketData.Provider)
		return nil, err
	}
	if source.Synthetic() {
		logger.Warn(ctx, "Using synthetic returns, performance figures are not measured")
	}
	return marketdataobs.WrapSource(source), nil
}

func initializeNotifier(ctx context.Context, cfg *store.Config) interfaces.Notifier {
	if !cfg.Slack.Enabled {
		return nil
	}
	slack, err := notify.NewSlack(os.Getenv(cfg.Slack.WebhookEnv), cfg.Slack.Channel, cfg.NewsTimeout())
	if err != nil {
		logger.Warn(ctx, "Slack notifications disabled", "error", err, "env", cfg.Slack.WebhookEnv)
		return nil
	}
	return slack
}
