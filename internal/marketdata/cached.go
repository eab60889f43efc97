package marketdata

import (
	"context"
	"time"

	"stock-ranker/internal/interfaces"
)

// CachedSource memoizes a ReturnSource on disk, keyed by provider, name and
// date. Lookup failures pass through uncached, and so do returns whose
// holding window has not closed yet.
type CachedSource struct {
	next        interfaces.ReturnSource
	cache       *Cache
	holdingDays int
	now         func() time.Time
}

func NewCachedSource(next interfaces.ReturnSource, cache *Cache, holdingDays int) *CachedSource {
	return &CachedSource{next: next, cache: cache, holdingDays: holdingDays, now: time.Now}
}

func (c *CachedSource) Name() string    { return c.next.Name() }
func (c *CachedSource) Synthetic() bool { return c.next.Synthetic() }

func (c *CachedSource) RealizedReturn(ctx context.Context, name string, date time.Time) (float64, error) {
	if !windowClosed(date, c.holdingDays, c.now()) {
		return c.next.RealizedReturn(ctx, name, date)
	}
	key := MakeKey(c.next.Name(), name, date.Format("2006-01-02"))
	return c.cache.GetOrFetch(key, func() (float64, error) {
		return c.next.RealizedReturn(ctx, name, date)
	})
}
