package interfaces

import (
	"context"
	"time"

	"stock-ranker/internal/types"
)

type ResultStore interface {
	Save(ctx context.Context, result *types.DailyResult) error

	// LoadRange returns stored results with from <= date <= to, oldest first.
	LoadRange(ctx context.Context, from, to time.Time) ([]types.DailyResult, error)
}
