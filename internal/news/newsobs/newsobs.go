package newsobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"stock-ranker/internal/interfaces"
	"stock-ranker/internal/logger"
	"stock-ranker/internal/trace"
	"stock-ranker/internal/types"
)

type observableCollector struct {
	inner interfaces.NewsCollector
}

// Wrap wraps a NewsCollector with logging and tracing
func Wrap(collector interfaces.NewsCollector) interfaces.NewsCollector {
	return &observableCollector{inner: collector}
}

func (o *observableCollector) Collect(ctx context.Context) types.NewsBatch {
	ctx, span := trace.StartSpan(ctx, "news.Collect")
	defer span.End()

	logger.Info(ctx, "Collecting news")
	start := time.Now()

	batch := o.inner.Collect(ctx)
	duration := time.Since(start)

	span.SetAttributes(
		attribute.Int("domestic_news", len(batch.Domestic)),
		attribute.Int("global_news", len(batch.Global)),
	)

	if len(batch.Domestic)+len(batch.Global) == 0 {
		logger.Warn(ctx, "No news collected from any source", "duration_ms", duration.Milliseconds())
		return batch
	}

	logger.Info(ctx, "News collection completed",
		"domestic_news", len(batch.Domestic),
		"global_news", len(batch.Global),
		"duration_ms", duration.Milliseconds(),
	)
	return batch
}
