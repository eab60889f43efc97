package marketdata

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// holdingReturn is the percentage change from the first close to the close
// holdingDays bars later, or to the last available bar when the window has
// not fully elapsed. At least two bars are required.
func holdingReturn(closes []decimal.Decimal, holdingDays int) (float64, error) {
	if len(closes) < 2 || closes[0].IsZero() {
		return 0, ErrNoData
	}
	exit := min(max(holdingDays, 1), len(closes)-1)
	ret := closes[exit].Sub(closes[0]).Div(closes[0]).Mul(hundred)
	return ret.Round(4).InexactFloat64(), nil
}

// holdingWindow spans enough calendar days to cover holdingDays trading
// sessions after start, clamped to now.
func holdingWindow(start time.Time, holdingDays int, now time.Time) (time.Time, time.Time) {
	end := windowEnd(start, holdingDays)
	if end.After(now) {
		end = now
	}
	return start, end
}

func windowEnd(start time.Time, holdingDays int) time.Time {
	return start.AddDate(0, 0, holdingDays*2+4)
}

// windowClosed reports whether the full holding window after start lies
// before now, so the return can no longer change.
func windowClosed(start time.Time, holdingDays int, now time.Time) bool {
	return !windowEnd(start, holdingDays).After(now)
}
