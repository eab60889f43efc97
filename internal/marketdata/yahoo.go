package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"stock-ranker/internal/types"
)

type closesFunc func(symbol string, start, end time.Time) ([]decimal.Decimal, error)

type quoteFunc func(symbol string) (price, changePercent float64, err error)

// YahooSource looks up realized returns from Yahoo daily bars. Names are
// mapped to tickers through the configured symbol table.
type YahooSource struct {
	symbols     map[string]string
	holdingDays int
	limiter     *RateLimiter
	closes      closesFunc
	now         func() time.Time
}

func NewYahooSource(symbols map[string]string, holdingDays int, limiter *RateLimiter) *YahooSource {
	return &YahooSource{
		symbols:     symbols,
		holdingDays: holdingDays,
		limiter:     limiter,
		closes:      yahooCloses,
		now:         time.Now,
	}
}

func (y *YahooSource) Name() string    { return "yahoo" }
func (y *YahooSource) Synthetic() bool { return false }

func (y *YahooSource) RealizedReturn(ctx context.Context, name string, date time.Time) (float64, error) {
	symbol, ok := y.symbols[name]
	if !ok || symbol == "" {
		return 0, fmt.Errorf("%w: %s", ErrUnknownName, name)
	}
	if err := y.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	start, end := holdingWindow(date, y.holdingDays, y.now())
	closes, err := y.closes(symbol, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to get bars for %s (%s): %w", name, symbol, err)
	}
	ret, err := holdingReturn(closes, y.holdingDays)
	if err != nil {
		return 0, fmt.Errorf("%s (%s) from %s: %w", name, symbol, date.Format("2006-01-02"), err)
	}
	return ret, nil
}

func yahooCloses(symbol string, start, end time.Time) ([]decimal.Decimal, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)
	var closes []decimal.Decimal
	for iter.Next() {
		closes = append(closes, iter.Bar().Close)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return closes, nil
}

// Snapshotter reads the daily change of the tracked overseas indices from
// Yahoo quotes.
type Snapshotter struct {
	indices map[string]string
	semiKey string
	limiter *RateLimiter
	quote   quoteFunc
}

func NewSnapshotter(indices map[string]string, semiKey string, limiter *RateLimiter) *Snapshotter {
	return &Snapshotter{
		indices: indices,
		semiKey: semiKey,
		limiter: limiter,
		quote:   yahooQuote,
	}
}

// Snapshot fetches every index. Failed quotes are left out; when none load
// the snapshot is NEUTRAL with Measured false.
func (s *Snapshotter) Snapshot(ctx context.Context) (*types.GlobalMarket, error) {
	keys := make([]string, 0, len(s.indices))
	for k := range s.indices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	market := &types.GlobalMarket{Indices: map[string]types.IndexChange{}}
	var total float64
	var firstErr error
	for _, k := range keys {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		price, change, err := s.quote(s.indices[k])
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("quote %s (%s): %w", k, s.indices[k], err)
			}
			continue
		}
		market.Indices[k] = types.IndexChange{Symbol: s.indices[k], Price: price, ChangePercent: change}
		total += change
	}

	if len(market.Indices) == 0 {
		market.Sentiment = string(types.SentimentNeutral)
		return market, firstErr
	}

	market.Measured = true
	market.AvgChange = total / float64(len(market.Indices))
	semi, hasSemi := market.Indices[s.semiKey]
	market.Sentiment = ClassifyGlobal(market.AvgChange, semi.ChangePercent, hasSemi)
	return market, nil
}

// ClassifyGlobal labels the average index change. VERY_BULLISH also needs
// the semiconductor index above 2%.
func ClassifyGlobal(avg, semiChange float64, hasSemi bool) string {
	switch {
	case avg > 1.0 && hasSemi && semiChange > 2.0:
		return "VERY_BULLISH"
	case avg > 0.5:
		return string(types.SentimentBullish)
	case avg < -0.5:
		return string(types.SentimentBearish)
	default:
		return string(types.SentimentNeutral)
	}
}

func yahooQuote(symbol string) (float64, float64, error) {
	q, err := quote.Get(symbol)
	if err != nil {
		return 0, 0, err
	}
	if q == nil {
		return 0, 0, ErrNoData
	}
	return q.RegularMarketPrice, q.RegularMarketChangePercent, nil
}
