package marketdata

import (
	"context"
	"hash/fnv"
	"math"
	"time"
)

// Range bounds the synthetic returns generated for one name.
type Range struct {
	Min float64
	Max float64
}

// SyntheticSource generates deterministic returns from a hash of name and
// date. It reports itself as synthetic so reports can never pass it off as
// measured data.
type SyntheticSource struct {
	fallback Range
	ranges   map[string]Range
}

func NewSyntheticSource(fallback Range, ranges map[string]Range) *SyntheticSource {
	return &SyntheticSource{fallback: fallback, ranges: ranges}
}

func (s *SyntheticSource) Name() string    { return "synthetic" }
func (s *SyntheticSource) Synthetic() bool { return true }

func (s *SyntheticSource) RealizedReturn(ctx context.Context, name string, date time.Time) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r, ok := s.ranges[name]
	if !ok {
		r = s.fallback
	}

	h := fnv.New64a()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(date.Format("2006-01-02")))
	frac := float64(h.Sum64()%1_000_000) / 1_000_000

	ret := r.Min + frac*(r.Max-r.Min)
	return math.Round(ret*100) / 100, nil
}
