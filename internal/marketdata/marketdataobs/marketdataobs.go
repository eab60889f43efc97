package marketdataobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"stock-ranker/internal/interfaces"
	"stock-ranker/internal/logger"
	"stock-ranker/internal/trace"
	"stock-ranker/internal/types"
)

type observableSource struct {
	inner interfaces.ReturnSource
}

// WrapSource wraps a ReturnSource with logging and tracing
func WrapSource(source interfaces.ReturnSource) interfaces.ReturnSource {
	return &observableSource{inner: source}
}

func (o *observableSource) Name() string    { return o.inner.Name() }
func (o *observableSource) Synthetic() bool { return o.inner.Synthetic() }

func (o *observableSource) RealizedReturn(ctx context.Context, name string, date time.Time) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.RealizedReturn")
	defer span.End()

	span.SetAttributes(
		attribute.String("provider", o.inner.Name()),
		attribute.String("name", name),
		attribute.String("date", date.Format("2006-01-02")),
	)

	ret, err := o.inner.RealizedReturn(ctx, name, date)
	if err != nil {
		span.RecordError(err)
		logger.Debug(ctx, "Return lookup failed", "provider", o.inner.Name(), "name", name, "error", err)
		return 0, err
	}

	span.SetAttributes(attribute.Float64("realized_return", ret))
	return ret, nil
}

type observableSnapshotter struct {
	inner interfaces.MarketSnapshotter
}

// WrapSnapshotter wraps a MarketSnapshotter with logging and tracing
func WrapSnapshotter(s interfaces.MarketSnapshotter) interfaces.MarketSnapshotter {
	return &observableSnapshotter{inner: s}
}

func (o *observableSnapshotter) Snapshot(ctx context.Context) (*types.GlobalMarket, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.Snapshot")
	defer span.End()

	start := time.Now()
	market, err := o.inner.Snapshot(ctx)
	duration := time.Since(start)

	if err != nil && (market == nil || !market.Measured) {
		logger.ErrorWithErr(ctx, "Global market snapshot failed", err, "duration_ms", duration.Milliseconds())
		return market, err
	}

	span.SetAttributes(
		attribute.String("sentiment", market.Sentiment),
		attribute.Int("indices", len(market.Indices)),
	)
	logger.Info(ctx, "Global market snapshot",
		"sentiment", market.Sentiment,
		"avg_change", market.AvgChange,
		"indices", len(market.Indices),
		"duration_ms", duration.Milliseconds(),
	)
	return market, nil
}
