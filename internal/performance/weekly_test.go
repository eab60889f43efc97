package performance

import (
	"testing"

	"stock-ranker/internal/types"
)

func TestSummarizeWeek(t *testing.T) {
	results := []types.DailyResult{
		{
			Date:            "2025-07-02",
			MarketSentiment: types.SentimentBullish,
			HotSectors:      []string{"AI", "Semiconductors"},
			Top10: []types.RankedEntry{
				{Rank: 1, Name: "SK Hynix", Score: 60, Region: types.RegionDomestic},
				{Rank: 2, Name: "TSMC", Score: 40, Region: types.RegionForeign},
			},
		},
		{
			Date:            "2025-07-01",
			MarketSentiment: types.SentimentNeutral,
			HotSectors:      []string{"Semiconductors"},
			NewsCounts:      types.NewsCounts{Domestic: 4, Global: 6},
			Top10: []types.RankedEntry{
				{Rank: 1, Name: "TSMC", Score: 50, Region: types.RegionForeign},
			},
		},
		{
			Date:            "2025-07-03",
			MarketSentiment: types.SentimentBullish,
		},
	}

	s := SummarizeWeek(results)

	if len(s.Days) != 3 || s.Days[0].Date != "2025-07-01" {
		t.Fatalf("Expected days sorted by date, got %+v", s.Days)
	}
	if s.Days[0].TopName != "TSMC" || s.Days[0].GlobalNews != 6 {
		t.Errorf("Unexpected first day %+v", s.Days[0])
	}
	if s.Days[2].Predictions != 0 || s.Days[2].TopName != "" {
		t.Errorf("Expected empty third day, got %+v", s.Days[2])
	}

	if len(s.Names) != 2 || s.Names[0].Name != "TSMC" {
		t.Fatalf("Expected TSMC most frequent, got %+v", s.Names)
	}
	if s.Names[0].Appearances != 2 || s.Names[0].AvgScore != 45 {
		t.Errorf("Unexpected TSMC frequency %+v", s.Names[0])
	}
	if len(s.Names[0].Regions) != 1 || s.Names[0].Regions[0] != types.RegionForeign {
		t.Errorf("Expected a single FOREIGN region, got %v", s.Names[0].Regions)
	}

	if len(s.HotSectors) != 2 || s.HotSectors[0].Sector != "Semiconductors" || s.HotSectors[0].Days != 2 {
		t.Errorf("Unexpected hot sectors %+v", s.HotSectors)
	}

	counts := s.SentimentCounts()
	if counts[types.SentimentBullish] != 2 || counts[types.SentimentNeutral] != 1 {
		t.Errorf("Unexpected sentiment counts %v", counts)
	}
}

func TestSummarizeWeekEmpty(t *testing.T) {
	s := SummarizeWeek(nil)
	if len(s.Days) != 0 || len(s.Names) != 0 || len(s.HotSectors) != 0 {
		t.Errorf("Expected empty summary, got %+v", s)
	}
}
