package ranking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"stock-ranker/internal/types"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Engine runs the scanners over one news batch and assembles the daily result.
type Engine struct {
	tables *Tables
}

func NewEngine(tables *Tables) (*Engine, error) {
	if tables == nil {
		return nil, errors.New("ranking engine requires keyword tables")
	}
	return &Engine{tables: tables}, nil
}

func (e *Engine) Tables() *Tables {
	return e.tables
}

// Analyze is pure apart from the run ID and the supplied clock. An empty
// batch yields a valid result with no ranked names.
func (e *Engine) Analyze(ctx context.Context, batch types.NewsBatch, now time.Time) (*types.DailyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := e.tables
	records := batch.All()

	mentions := ExtractMentions(records, t)
	sentiments := ScoreSentiment(records, t)
	flags := DetectTopics(records, t)
	scored := CalculateScores(records, mentions, sentiments, flags, t)
	market := AnalyzeMarket(records, sentiments, t)

	return &types.DailyResult{
		RunID:           uuid.NewString(),
		Date:            now.Format(DateLayout),
		Time:            now.Format(TimeLayout),
		MarketSentiment: market.Sentiment,
		HotSectors:      market.HotSectors,
		NewsCounts: types.NewsCounts{
			Domestic:       len(batch.Domestic),
			Global:         len(batch.Global),
			Total:          len(records),
			NamesMentioned: mentions.Len(),
		},
		Top10:             Rank(scored, mentions, t),
		Declining:         DetectDeclining(records, mentions, t),
		EmergingTrends:    DetectTrends(records, t.EmergingTrends, t),
		InfluentialImpact: DetectTrends(records, t.InfluentialEntities, t),
	}, nil
}

// ActiveTopics reports which batch-level topics fire for records. It is used
// by callers that log the topic picture next to a result.
func (e *Engine) ActiveTopics(records []types.NewsRecord) []string {
	return DetectTopics(records, e.tables).ActiveFlags()
}
