package ranking

import "stock-ranker/internal/types"

// ScoreSentiment returns one score per record, in record order.
// Each score is (pos-neg)/(pos+neg) over distinct word hits, or 0.
func ScoreSentiment(records []types.NewsRecord, tables *Tables) []float64 {
	matcher := tables.Matcher()
	scores := make([]float64, len(records))
	for i, rec := range records {
		text := matcher.Prepare(rec.Text())
		pos := matcher.CountDistinct(text, tables.PositiveWords)
		neg := matcher.CountDistinct(text, tables.NegativeWords)
		scores[i] = polarity(pos, neg)
	}
	return scores
}

func polarity(pos, neg int) float64 {
	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}

// MeanSentiment averages per-record scores; an empty slice yields 0.
func MeanSentiment(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
