package interfaces

import (
	"context"

	"stock-ranker/internal/types"
)

// NewsSource fetches records from a single feed, site or file.
type NewsSource interface {
	Name() string
	Fetch(ctx context.Context) ([]types.NewsRecord, error)
}

// NewsCollector gathers a full batch. Source failures never escape: a failed
// source contributes no records.
type NewsCollector interface {
	Collect(ctx context.Context) types.NewsBatch
}
