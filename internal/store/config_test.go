package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"))
	if err != nil {
		t.Fatalf("Expected empty config to validate with defaults, got %v", err)
	}

	if cfg.Timezone != "Asia/Seoul" {
		t.Errorf("Expected default timezone Asia/Seoul, got %s", cfg.Timezone)
	}
	if cfg.Output.Backend != "file" || cfg.Output.Dir != "results" {
		t.Errorf("Unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.MarketData.Provider != "yahoo" || cfg.MarketData.HoldingDays != 5 {
		t.Errorf("Unexpected market data defaults: provider=%s holding=%d", cfg.MarketData.Provider, cfg.MarketData.HoldingDays)
	}
	if cfg.MarketData.Synthetic.Default.Min != -5 || cfg.MarketData.Synthetic.Default.Max != 8 {
		t.Errorf("Unexpected synthetic default range %+v", cfg.MarketData.Synthetic.Default)
	}
	if cfg.Performance.WeeklyDays != 7 || cfg.Performance.ValidateDays != 30 {
		t.Errorf("Unexpected performance defaults %+v", cfg.Performance)
	}
	if len(cfg.Schedule.Times) != 4 || cfg.Schedule.Times[0] != "21:00" {
		t.Errorf("Unexpected schedule defaults %v", cfg.Schedule.Times)
	}
	if cfg.GlobalMarket.Indices["semis"] != "SOXX" {
		t.Errorf("Expected semiconductor index default, got %v", cfg.GlobalMarket.Indices)
	}
	if cfg.NewsTimeout().Seconds() != 30 {
		t.Errorf("Expected 30s news timeout, got %v", cfg.NewsTimeout())
	}
}

func TestParseConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad timezone", "timezone: Mars/Olympus", "invalid timezone"},
		{"bad backend", "output: {backend: s3}", "output.backend"},
		{"bad provider", "market_data: {provider: bloomberg}", "market_data.provider"},
		{"bad source kind", "news: {sources: [{name: x, kind: ftp, region: global}]}", "kind must be"},
		{"bad region", "news: {sources: [{name: x, kind: rss, url: http://x, region: mars}]}", "region must be"},
		{"rss without url", "news: {sources: [{name: x, kind: rss, region: global}]}", "requires a url"},
		{"sample without file", "news: {sources: [{name: x, kind: sample, region: global}]}", "requires a file"},
		{"scrape without selector", "news: {sources: [{name: x, kind: scrape, url: http://x, region: domestic}]}", "selectors.article"},
		{"inverted range", "market_data: {synthetic: {ranges: {Kakao: {min: 5, max: -5}}}}", "exceeds max"},
		{"negative retention", "output: {retention_days: -1}", "retention_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
timezone: UTC
news:
  sources:
    - name: sample
      kind: sample
      region: global
      file: data/sample_news.json
market_data:
  provider: synthetic
  synthetic:
    ranges:
      SK Hynix: {min: -8.2, max: 12.3}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected config to load, got %v", err)
	}
	if cfg.Location().String() != "UTC" {
		t.Errorf("Expected UTC location, got %s", cfg.Location())
	}
	if len(cfg.News.Sources) != 1 || cfg.News.Sources[0].Kind != "sample" {
		t.Errorf("Unexpected sources %+v", cfg.News.Sources)
	}
	if r := cfg.MarketData.Synthetic.Ranges["SK Hynix"]; r.Max != 12.3 {
		t.Errorf("Expected SK Hynix range, got %+v", r)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRepositoryConfigLoads(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "config.yaml"))
	if err != nil {
		t.Fatalf("config.yaml failed to load: %v", err)
	}
	if len(cfg.News.Sources) == 0 {
		t.Error("Expected configured news sources")
	}
	if cfg.MarketData.Symbols["TSMC"] != "TSM" {
		t.Errorf("Expected TSMC mapped to TSM, got %q", cfg.MarketData.Symbols["TSMC"])
	}
	if len(cfg.Schedule.Times) != 4 {
		t.Errorf("Expected four schedule times, got %v", cfg.Schedule.Times)
	}
}
