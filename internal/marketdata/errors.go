package marketdata

import "errors"

var (
	// ErrUnknownName is returned when a name has no symbol or instrument mapping.
	ErrUnknownName = errors.New("no market symbol mapped for name")

	// ErrNoData is returned when the provider has too few bars for the window.
	ErrNoData = errors.New("not enough price data for holding window")
)
