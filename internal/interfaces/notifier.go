package interfaces

import (
	"context"

	"stock-ranker/internal/types"
)

type Notifier interface {
	NotifyDaily(ctx context.Context, result *types.DailyResult) error
	NotifyPerformance(ctx context.Context, report *types.PerformanceReport) error
}
