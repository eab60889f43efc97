package interfaces

import (
	"context"
	"time"

	"stock-ranker/internal/types"
)

// ReturnSource supplies the realized percentage return of a name over the
// holding window starting at date. A failed lookup returns an error, never a
// substitute number.
type ReturnSource interface {
	RealizedReturn(ctx context.Context, name string, date time.Time) (float64, error)

	// Name identifies the strategy in reports.
	Name() string

	// Synthetic is true when returns are generated rather than measured.
	Synthetic() bool
}

// MarketSnapshotter reads the daily change of the tracked overseas indices.
type MarketSnapshotter interface {
	Snapshot(ctx context.Context) (*types.GlobalMarket, error)
}
