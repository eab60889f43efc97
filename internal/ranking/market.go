package ranking

import (
	"sort"

	"stock-ranker/internal/types"
)

// MarketTrends is the batch-wide mood: the busiest sectors and the overall
// sentiment label.
type MarketTrends struct {
	HotSectors []string
	Sentiment  types.MarketSentiment
	Mean       float64
}

// AnalyzeMarket counts, per sector, the records mentioning any of its names
// and labels the mean record sentiment.
func AnalyzeMarket(records []types.NewsRecord, sentiments []float64, tables *Tables) MarketTrends {
	matcher := tables.Matcher()

	type sectorCount struct {
		name  string
		count int
	}
	counts := make([]sectorCount, len(tables.Sectors))
	for i, s := range tables.Sectors {
		counts[i].name = s.Name
	}
	for _, rec := range records {
		text := matcher.Prepare(rec.Text())
		for i, s := range tables.Sectors {
			if matcher.ContainsAny(text, s.Names) {
				counts[i].count++
			}
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	hot := make([]string, 0, tables.Limits.HotSectors)
	for _, c := range counts {
		if len(hot) == tables.Limits.HotSectors || c.count == 0 {
			break
		}
		hot = append(hot, c.name)
	}

	mean := MeanSentiment(sentiments)
	return MarketTrends{
		HotSectors: hot,
		Sentiment:  classifySentiment(mean, tables.Limits),
		Mean:       mean,
	}
}

func classifySentiment(mean float64, limits Limits) types.MarketSentiment {
	switch {
	case mean > limits.BullishAbove:
		return types.SentimentBullish
	case mean < limits.BearishBelow:
		return types.SentimentBearish
	default:
		return types.SentimentNeutral
	}
}
