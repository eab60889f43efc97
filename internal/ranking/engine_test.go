package ranking

import (
	"context"
	"testing"
	"time"

	"stock-ranker/internal/types"
)

func TestEngineAnalyzeEmptyBatch(t *testing.T) {
	engine, err := NewEngine(testTables(t))
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 7, 21, 21, 0, 0, 0, time.UTC)

	result, err := engine.Analyze(context.Background(), types.NewsBatch{}, now)
	if err != nil {
		t.Fatalf("Expected no error on empty batch, got %v", err)
	}

	if len(result.Top10) != 0 || len(result.Declining) != 0 {
		t.Errorf("Expected empty rankings, got %d and %d", len(result.Top10), len(result.Declining))
	}
	if result.MarketSentiment != types.SentimentNeutral {
		t.Errorf("Expected NEUTRAL, got %s", result.MarketSentiment)
	}
	if result.NewsCounts.NamesMentioned != 0 || result.NewsCounts.Total != 0 {
		t.Errorf("Expected zero counts, got %+v", result.NewsCounts)
	}
	if result.Date != "2025-07-21" || result.Time != "21:00:00" {
		t.Errorf("Unexpected date/time %s %s", result.Date, result.Time)
	}
	if result.RunID == "" {
		t.Error("Expected a run ID")
	}
}

func TestEngineAnalyzeScenario(t *testing.T) {
	engine, err := NewEngine(testTables(t))
	if err != nil {
		t.Fatal(err)
	}
	all := scenarioBatch()
	batch := types.NewsBatch{Domestic: all[:3], Global: all[3:]}

	result, err := engine.Analyze(context.Background(), batch, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	counts := result.NewsCounts
	if counts.Domestic != 3 || counts.Global != 2 || counts.Total != 5 || counts.NamesMentioned != 2 {
		t.Errorf("Unexpected news counts %+v", counts)
	}
	if len(result.Top10) != 2 || result.Top10[0].Name != "AlphaChip" {
		t.Errorf("Expected AlphaChip on top, got %+v", result.Top10)
	}
	if len(result.Declining) != 1 || result.Declining[0].Name != "BetaBank" {
		t.Errorf("Expected BetaBank declining, got %+v", result.Declining)
	}
	if len(result.HotSectors) != 2 {
		t.Errorf("Expected 2 hot sectors, got %v", result.HotSectors)
	}
}

func TestEngineRunIDsAreUnique(t *testing.T) {
	engine, _ := NewEngine(testTables(t))
	ctx := context.Background()

	a, _ := engine.Analyze(ctx, types.NewsBatch{}, time.Now())
	b, _ := engine.Analyze(ctx, types.NewsBatch{}, time.Now())
	if a.RunID == b.RunID {
		t.Error("Expected distinct run IDs")
	}
}

func TestEngineHonoursCancellation(t *testing.T) {
	engine, _ := NewEngine(testTables(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Analyze(ctx, types.NewsBatch{}, time.Now()); err == nil {
		t.Error("Expected an error for a cancelled context")
	}
}

func TestNewEngineRequiresTables(t *testing.T) {
	if _, err := NewEngine(nil); err == nil {
		t.Error("Expected an error without tables")
	}
}

func TestEngineDefaultTablesSample(t *testing.T) {
	tables, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	engine, _ := NewEngine(tables)

	batch := types.NewsBatch{
		Global: []types.NewsRecord{
			rec("TSMC posts record quarter as AI demand surges", "TSMC earnings beat estimates on strong AI chip growth"),
			rec("NVIDIA faces margin pressure", "NVIDIA revenue rises but investors voice concern"),
		},
	}
	result, err := engine.Analyze(context.Background(), batch, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Top10) == 0 {
		t.Fatal("Expected ranked names from the default tables")
	}
	if result.Top10[0].Name != "TSMC" {
		t.Errorf("Expected TSMC on top, got %s", result.Top10[0].Name)
	}
	if result.Top10[0].Region != types.RegionForeign {
		t.Errorf("Expected TSMC FOREIGN, got %s", result.Top10[0].Region)
	}

	active := engine.ActiveTopics(batch.All())
	found := false
	for _, f := range active {
		if f == "foundry_earnings" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected foundry_earnings among %v", active)
	}
}
