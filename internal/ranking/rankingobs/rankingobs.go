package rankingobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"stock-ranker/internal/interfaces"
	"stock-ranker/internal/logger"
	"stock-ranker/internal/trace"
	"stock-ranker/internal/types"
)

// observableAnalyzer wraps an Analyzer with logging and tracing
type observableAnalyzer struct {
	inner interfaces.Analyzer
}

// Wrap wraps an Analyzer with observability middleware
func Wrap(analyzer interfaces.Analyzer) interfaces.Analyzer {
	return &observableAnalyzer{inner: analyzer}
}

// Analyze wraps the Analyze method with logging and tracing
func (o *observableAnalyzer) Analyze(ctx context.Context, batch types.NewsBatch, now time.Time) (*types.DailyResult, error) {
	ctx, span := trace.StartSpan(ctx, "ranking.Analyze")
	defer span.End()

	span.SetAttributes(
		attribute.Int("domestic_news", len(batch.Domestic)),
		attribute.Int("global_news", len(batch.Global)),
	)

	logger.Info(ctx, "Starting news ranking",
		"domestic_news", len(batch.Domestic),
		"global_news", len(batch.Global),
	)
	start := time.Now()

	result, err := o.inner.Analyze(ctx, batch, now)
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithErr(ctx, "News ranking failed", err, "duration_ms", duration.Milliseconds())
		return nil, err
	}

	if result.NewsCounts.Total == 0 {
		logger.Warn(ctx, "No news collected, ranking is empty")
	}

	for _, entry := range result.Top10 {
		logger.Ranked(ctx, entry)
	}
	for _, entry := range result.Declining {
		logger.RiskFlag(ctx, entry)
	}

	span.SetAttributes(
		attribute.String("run_id", result.RunID),
		attribute.Int("ranked", len(result.Top10)),
		attribute.Int("declining", len(result.Declining)),
	)

	logger.Info(ctx, "News ranking completed",
		"run_id", result.RunID,
		"duration_ms", duration.Milliseconds(),
		"names_mentioned", result.NewsCounts.NamesMentioned,
		"ranked", len(result.Top10),
		"declining", len(result.Declining),
		"market_sentiment", string(result.MarketSentiment),
		"hot_sectors", result.HotSectors,
		"emerging_trends", len(result.EmergingTrends.Categories),
		"influential_entities", len(result.InfluentialImpact.Categories),
	)

	return result, nil
}
