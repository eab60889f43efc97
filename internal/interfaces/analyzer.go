package interfaces

import (
	"context"
	"time"

	"stock-ranker/internal/types"
)

// Analyzer turns one news batch into a daily ranking result.
type Analyzer interface {
	Analyze(ctx context.Context, batch types.NewsBatch, now time.Time) (*types.DailyResult, error)
}
