package performance

import (
	"sort"

	"stock-ranker/internal/types"
)

type DaySummary struct {
	Date         string
	Predictions  int
	Sentiment    types.MarketSentiment
	DomesticNews int
	GlobalNews   int
	TopName      string
}

type NameFrequency struct {
	Name        string
	Appearances int
	AvgScore    float64
	Regions     []types.Region
}

type SectorFrequency struct {
	Sector string
	Days   int
}

// WeeklySummary describes a window of stored rankings without any return data.
type WeeklySummary struct {
	Days       []DaySummary
	Names      []NameFrequency
	HotSectors []SectorFrequency
}

// SummarizeWeek aggregates results by day, by ranked name and by hot sector.
// Names are ordered by appearances then average score; sectors by days hot.
func SummarizeWeek(results []types.DailyResult) WeeklySummary {
	sorted := make([]types.DailyResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	summary := WeeklySummary{}

	type nameAgg struct {
		count   int
		total   float64
		regions []types.Region
	}
	names := map[string]*nameAgg{}
	var nameOrder []string
	sectors := map[string]int{}
	var sectorOrder []string

	for _, r := range sorted {
		day := DaySummary{
			Date:         r.Date,
			Predictions:  len(r.Top10),
			Sentiment:    r.MarketSentiment,
			DomesticNews: r.NewsCounts.Domestic,
			GlobalNews:   r.NewsCounts.Global,
		}
		if len(r.Top10) > 0 {
			day.TopName = r.Top10[0].Name
		}
		summary.Days = append(summary.Days, day)

		for _, e := range r.Top10 {
			agg, ok := names[e.Name]
			if !ok {
				agg = &nameAgg{}
				names[e.Name] = agg
				nameOrder = append(nameOrder, e.Name)
			}
			agg.count++
			agg.total += e.Score
			if !containsRegion(agg.regions, e.Region) {
				agg.regions = append(agg.regions, e.Region)
			}
		}
		for _, s := range r.HotSectors {
			if _, ok := sectors[s]; !ok {
				sectorOrder = append(sectorOrder, s)
			}
			sectors[s]++
		}
	}

	for _, n := range nameOrder {
		agg := names[n]
		summary.Names = append(summary.Names, NameFrequency{
			Name:        n,
			Appearances: agg.count,
			AvgScore:    agg.total / float64(agg.count),
			Regions:     agg.regions,
		})
	}
	sort.SliceStable(summary.Names, func(i, j int) bool {
		a, b := summary.Names[i], summary.Names[j]
		if a.Appearances != b.Appearances {
			return a.Appearances > b.Appearances
		}
		return a.AvgScore > b.AvgScore
	})

	for _, s := range sectorOrder {
		summary.HotSectors = append(summary.HotSectors, SectorFrequency{Sector: s, Days: sectors[s]})
	}
	sort.SliceStable(summary.HotSectors, func(i, j int) bool {
		return summary.HotSectors[i].Days > summary.HotSectors[j].Days
	})

	return summary
}

// SentimentCounts tallies the daily market sentiment labels.
func (w WeeklySummary) SentimentCounts() map[types.MarketSentiment]int {
	counts := make(map[types.MarketSentiment]int, 3)
	for _, d := range w.Days {
		counts[d.Sentiment]++
	}
	return counts
}

func containsRegion(regions []types.Region, r types.Region) bool {
	for _, x := range regions {
		if x == r {
			return true
		}
	}
	return false
}
