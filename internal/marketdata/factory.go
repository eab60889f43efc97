package marketdata

import (
	"fmt"
	"os"

	"stock-ranker/internal/interfaces"
	"stock-ranker/internal/store"
)

// NewReturnSource builds the configured provider behind a disk cache.
// The synthetic provider is never cached so changed ranges apply at once.
func NewReturnSource(cfg *store.Config) (interfaces.ReturnSource, error) {
	md := cfg.MarketData
	limiter := NewRateLimiter(md.RequestsPerSec)

	var source interfaces.ReturnSource
	switch md.Provider {
	case "synthetic":
		ranges := make(map[string]Range, len(md.Synthetic.Ranges))
		for name, r := range md.Synthetic.Ranges {
			ranges[name] = Range{Min: r.Min, Max: r.Max}
		}
		return NewSyntheticSource(Range{Min: md.Synthetic.Default.Min, Max: md.Synthetic.Default.Max}, ranges), nil
	case "kite":
		kite, err := NewKiteSource(os.Getenv(md.APIKeyEnv), os.Getenv(md.AccessTokenEnv), md.InstrumentTokens, md.HoldingDays, limiter)
		if err != nil {
			return nil, err
		}
		source = kite
	case "yahoo":
		source = NewYahooSource(md.Symbols, md.HoldingDays, limiter)
	default:
		return nil, fmt.Errorf("unknown market data provider '%s'", md.Provider)
	}

	cache, err := NewCache(md.CacheDir, cfg.CacheTTL())
	if err != nil {
		return nil, err
	}
	return NewCachedSource(source, cache, md.HoldingDays), nil
}

func NewMarketSnapshotter(cfg *store.Config) interfaces.MarketSnapshotter {
	return NewSnapshotter(cfg.GlobalMarket.Indices, cfg.GlobalMarket.SemiIndexKey, NewRateLimiter(cfg.MarketData.RequestsPerSec))
}
