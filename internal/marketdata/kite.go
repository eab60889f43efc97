package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

type historicalFunc func(token int, from, to time.Time) ([]float64, error)

// KiteSource looks up realized returns from Zerodha Kite daily candles.
// Names are mapped to instrument tokens through the configuration.
type KiteSource struct {
	tokens      map[string]int
	holdingDays int
	limiter     *RateLimiter
	history     historicalFunc
	now         func() time.Time
}

func NewKiteSource(apiKey, accessToken string, tokens map[string]int, holdingDays int, limiter *RateLimiter) (*KiteSource, error) {
	if apiKey == "" || accessToken == "" {
		return nil, errors.New("kite api key and access token are required")
	}

	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)

	return &KiteSource{
		tokens:      tokens,
		holdingDays: holdingDays,
		limiter:     limiter,
		history: func(token int, from, to time.Time) ([]float64, error) {
			candles, err := kc.GetHistoricalData(token, "day", from, to, false, false)
			if err != nil {
				return nil, err
			}
			closes := make([]float64, len(candles))
			for i, c := range candles {
				closes[i] = c.Close
			}
			return closes, nil
		},
		now: time.Now,
	}, nil
}

func (k *KiteSource) Name() string    { return "kite" }
func (k *KiteSource) Synthetic() bool { return false }

func (k *KiteSource) RealizedReturn(ctx context.Context, name string, date time.Time) (float64, error) {
	token, ok := k.tokens[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownName, name)
	}
	if err := k.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	from, to := holdingWindow(date, k.holdingDays, k.now())
	raw, err := k.history(token, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to get candles for %s (%d): %w", name, token, err)
	}

	closes := make([]decimal.Decimal, len(raw))
	for i, c := range raw {
		closes[i] = decimal.NewFromFloat(c)
	}
	ret, err := holdingReturn(closes, k.holdingDays)
	if err != nil {
		return 0, fmt.Errorf("%s (%d) from %s: %w", name, token, date.Format("2006-01-02"), err)
	}
	return ret, nil
}
