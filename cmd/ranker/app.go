package main

import (
	"context"
	"time"

	"stock-ranker/internal/cli"
	"stock-ranker/internal/interfaces"
	"stock-ranker/internal/logger"
	"stock-ranker/internal/performance"
	"stock-ranker/internal/store"
	"stock-ranker/internal/types"
)

type compressor interface {
	CompressOlder(retentionDays int, now time.Time) (int, error)
}

type app struct {
	cfg         *store.Config
	analyzer    interfaces.Analyzer
	collector   interfaces.NewsCollector
	results     interfaces.ResultStore
	closeStore  func() error
	notifier    interfaces.Notifier
	snapshotter interfaces.MarketSnapshotter
	compressor  compressor
	returns     interfaces.ReturnSource
	now         func() time.Time
}

func nowIn(cfg *store.Config) func() time.Time {
	loc := cfg.Location()
	return func() time.Time { return time.Now().In(loc) }
}

// RunDaily collects, ranks and stores one result. Store, snapshot and
// notification failures are logged and do not fail the run.
func (a *app) RunDaily(ctx context.Context) (*types.DailyResult, error) {
	op := logger.StartOperation(ctx, "daily_run")
	ctx = op.GetContext()

	batch := a.collector.Collect(ctx)
	now := a.now()

	result, err := a.analyzer.Analyze(ctx, batch, now)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	if a.snapshotter != nil {
		market, err := a.snapshotter.Snapshot(ctx)
		if err != nil {
			logger.Warn(ctx, "Global market snapshot unavailable", "error", err)
		}
		result.GlobalMarket = market
	}

	if err := a.results.Save(ctx, result); err != nil {
		logger.ErrorWithErr(ctx, "Failed to save result", err, "date", result.Date)
	} else {
		logger.Info(ctx, "Result saved", "date", result.Date, "run_id", result.RunID)
	}

	if a.compressor != nil && a.cfg.Output.RetentionDays > 0 {
		if n, err := a.compressor.CompressOlder(a.cfg.Output.RetentionDays, now); err != nil {
			logger.Warn(ctx, "Failed to compress old results", "error", err)
		} else if n > 0 {
			logger.Info(ctx, "Compressed old results", "files", n)
		}
	}

	if a.notifier != nil {
		if err := a.notifier.NotifyDaily(ctx, result); err != nil {
			logger.ErrorWithErr(ctx, "Failed to send daily notification", err)
		}
	}

	op.End("run_id", result.RunID, "ranked", len(result.Top10))
	return result, nil
}

// Validate evaluates the last days of stored rankings.
func (a *app) Validate(ctx context.Context, days int) (*types.PerformanceReport, error) {
	results, err := a.loadDays(ctx, days)
	if err != nil {
		return nil, err
	}

	report, err := a.evaluate(ctx, results, days)
	if err != nil {
		return nil, err
	}
	if a.notifier != nil {
		if err := a.notifier.NotifyPerformance(ctx, report); err != nil {
			logger.ErrorWithErr(ctx, "Failed to send performance notification", err)
		}
	}
	return report, nil
}

// Weekly summarizes the configured weekly window and evaluates it.
func (a *app) Weekly(ctx context.Context) (performance.WeeklySummary, *types.PerformanceReport, error) {
	days := a.cfg.Performance.WeeklyDays
	results, err := a.loadDays(ctx, days)
	if err != nil {
		return performance.WeeklySummary{}, nil, err
	}

	summary := performance.SummarizeWeek(results)
	report, err := a.evaluate(ctx, results, days)
	if err != nil {
		return summary, nil, err
	}
	return summary, report, nil
}

func (a *app) loadDays(ctx context.Context, days int) ([]types.DailyResult, error) {
	to := a.now()
	from := to.AddDate(0, 0, -(days - 1))
	results, err := a.results.LoadRange(ctx, from, to)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load stored results", err, "days", days)
		return nil, err
	}
	logger.Info(ctx, "Loaded stored results", "requested_days", days, "found", len(results))
	return results, nil
}

func (a *app) evaluate(ctx context.Context, results []types.DailyResult, days int) (*types.PerformanceReport, error) {
	if a.returns == nil {
		source, err := initializeReturnSource(ctx, a.cfg)
		if err != nil {
			return nil, err
		}
		a.returns = source
	}

	agg, err := performance.NewAggregator(a.returns)
	if err != nil {
		return nil, err
	}

	minDays := a.cfg.Performance.MinHistoryDays
	if minDays > days {
		minDays = days
	}
	return agg.Evaluate(ctx, results, days, minDays)
}

func (a *app) Close(ctx context.Context) {
	if a.closeStore == nil {
		return
	}
	if err := a.closeStore(); err != nil {
		logger.Warn(ctx, "Failed to close result store", "error", err)
	}
}

func renderDaily(result *types.DailyResult) string {
	return cli.RenderDaily(result)
}

func renderPerformance(report *types.PerformanceReport) string {
	return cli.RenderPerformance(report)
}

func renderWeekly(summary performance.WeeklySummary) string {
	return cli.RenderWeekly(summary)
}
