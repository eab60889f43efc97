package performance

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"stock-ranker/internal/interfaces"
	"stock-ranker/internal/logger"
	"stock-ranker/internal/types"
)

const (
	dateLayout         = "2006-01-02"
	strongBuyAbove     = 5.0
	topRecommendations = 5
)

// Aggregator joins stored rankings with realized returns from an injected
// source. Failed lookups are counted, never filled in.
type Aggregator struct {
	source interfaces.ReturnSource
}

func NewAggregator(source interfaces.ReturnSource) (*Aggregator, error) {
	if source == nil {
		return nil, errors.New("performance aggregator requires a return source")
	}
	return &Aggregator{source: source}, nil
}

// Evaluate builds the performance report for results. minDays <= 0 means the
// requested number of days must all be present.
func (a *Aggregator) Evaluate(ctx context.Context, results []types.DailyResult, requestedDays, minDays int) (*types.PerformanceReport, error) {
	if minDays <= 0 {
		minDays = requestedDays
	}

	report := &types.PerformanceReport{
		RequestedDays: requestedDays,
		ResultsFound:  len(results),
		Top5:          []types.Recommendation{},
		DataSource:    a.source.Name(),
		Synthetic:     a.source.Synthetic(),
	}

	if len(results) < minDays {
		report.InsufficientData = true
		logger.Warn(ctx, "Insufficient ranking history",
			"requested_days", requestedDays,
			"min_days", minDays,
			"found", len(results),
		)
		return report, nil
	}

	records, missing, err := a.join(ctx, results)
	if err != nil {
		return nil, err
	}

	report.Records = records
	report.Rows = len(records)
	report.Missing = missing
	report.Correlation = Pearson(predictedScores(records), realizedReturns(records))
	report.AccuracyRate = Accuracy(records)
	report.Top5 = TopRecommendations(records, topRecommendations)

	if report.Rows == 0 {
		report.InsufficientData = true
	}
	return report, nil
}

func (a *Aggregator) join(ctx context.Context, results []types.DailyResult) ([]types.PerformanceRecord, int, error) {
	var records []types.PerformanceRecord
	missing := 0

	for _, result := range results {
		date, err := time.Parse(dateLayout, result.Date)
		if err != nil {
			logger.Warn(ctx, "Skipping result with unparseable date", "date", result.Date, "error", err)
			missing += len(result.Top10)
			continue
		}
		for _, entry := range result.Top10 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
			ret, err := a.source.RealizedReturn(ctx, entry.Name, date)
			if err != nil {
				logger.Debug(ctx, "Realized return unavailable", "name", entry.Name, "date", result.Date, "error", err)
				missing++
				continue
			}
			records = append(records, types.PerformanceRecord{
				Date:           result.Date,
				Name:           entry.Name,
				PredictedScore: entry.Score,
				RealizedReturn: ret,
				Rank:           entry.Rank,
				Region:         entry.Region,
				Source:         a.source.Name(),
			})
		}
	}
	return records, missing, nil
}

// Pearson returns the correlation coefficient of xs and ys, or 0 with fewer
// than two pairs or zero variance in either column.
func Pearson(xs, ys []float64) float64 {
	n := min(len(xs), len(ys))
	if n < 2 {
		return 0
	}
	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// Accuracy is the share of records with a positive realized return.
func Accuracy(records []types.PerformanceRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	hits := 0
	for _, r := range records {
		if r.RealizedReturn > 0 {
			hits++
		}
	}
	return float64(hits) / float64(len(records))
}

// TopRecommendations returns the n best realized returns, labelled.
func TopRecommendations(records []types.PerformanceRecord, n int) []types.Recommendation {
	sorted := make([]types.PerformanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RealizedReturn > sorted[j].RealizedReturn
	})

	n = min(n, len(sorted))
	out := make([]types.Recommendation, 0, n)
	for _, r := range sorted[:n] {
		label := "consider buy"
		if r.RealizedReturn > strongBuyAbove {
			label = "strong buy"
		}
		out = append(out, types.Recommendation{Name: r.Name, RealizedReturn: r.RealizedReturn, Label: label})
	}
	return out
}

func predictedScores(records []types.PerformanceRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.PredictedScore
	}
	return out
}

func realizedReturns(records []types.PerformanceRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.RealizedReturn
	}
	return out
}
