package ranking

import (
	"reflect"
	"strings"
	"testing"

	"stock-ranker/internal/types"
)

func TestExtractMentions(t *testing.T) {
	tables := testTables(t)

	m := ExtractMentions(scenarioBatch(), tables)

	if m.Count("AlphaChip") != 3 {
		t.Errorf("Expected AlphaChip mentioned 3 times, got %d", m.Count("AlphaChip"))
	}
	if m.Count("BetaBank") != 2 {
		t.Errorf("Expected BetaBank mentioned 2 times, got %d", m.Count("BetaBank"))
	}
	if !reflect.DeepEqual(m.Order, []string{"AlphaChip", "BetaBank"}) {
		t.Errorf("Expected first-seen order [AlphaChip BetaBank], got %v", m.Order)
	}
}

func TestExtractMentionsCountsOncePerRecord(t *testing.T) {
	tables := testTables(t)

	records := []types.NewsRecord{
		rec("DualCo DualCo DualCo", "DualCo again"),
	}
	m := ExtractMentions(records, tables)

	// DualCo is listed under Chips and AI and repeated in the text.
	if m.Count("DualCo") != 1 {
		t.Errorf("Expected DualCo counted once, got %d", m.Count("DualCo"))
	}
}

func TestExtractMentionsIdempotent(t *testing.T) {
	tables := testTables(t)
	batch := scenarioBatch()

	first := ExtractMentions(batch, tables)
	second := ExtractMentions(batch, tables)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical mentions, got %v and %v", first, second)
	}
}

func TestScoreSentimentKeyedByIndex(t *testing.T) {
	tables := testTables(t)

	records := []types.NewsRecord{
		rec("Same headline", "shares surge"),
		rec("Same headline", "shares plunge"),
		rec("Same headline", "nothing to see"),
		rec("Same headline", "surge then plunge and loss"),
	}
	got := ScoreSentiment(records, tables)
	want := []float64{1, -1, 0, -1.0 / 3.0}

	if len(got) != len(want) {
		t.Fatalf("Expected %d scores, got %d", len(want), len(got))
	}
	for i := range want {
		if !approxEqual(got[i], want[i]) {
			t.Errorf("Record %d: expected %.4f, got %.4f", i, want[i], got[i])
		}
	}
}

func TestScoreSentimentBounds(t *testing.T) {
	tables := testTables(t)

	records := append(scenarioBatch(),
		rec("", ""),
		rec("record surge growth", "loss plunge warning"),
		rec("record record record", ""),
	)
	for i, s := range ScoreSentiment(records, tables) {
		if s < -1 || s > 1 {
			t.Errorf("Record %d sentiment %.3f out of [-1, 1]", i, s)
		}
	}
}

func TestDetectTopics(t *testing.T) {
	tables := testTables(t)

	tests := []struct {
		name    string
		records []types.NewsRecord
		want    []string
	}{
		{
			name:    "single record",
			records: []types.NewsRecord{rec("AlphaChip posts record quarter", "")},
			want:    []string{"chip_boom"},
		},
		{
			name: "groups satisfied by different records",
			records: []types.NewsRecord{
				rec("ALPHACHIP update", ""),
				rec("", "a boom in unrelated markets"),
			},
			want: []string{"chip_boom"},
		},
		{
			name:    "missing group",
			records: []types.NewsRecord{rec("AlphaChip update", "")},
			want:    []string{},
		},
		{
			name: "multiple topics in declaration order",
			records: []types.NewsRecord{
				rec("Central Bank holds", ""),
				rec("AlphaChip boom", ""),
			},
			want: []string{"chip_boom", "rates"},
		},
		{
			name:    "empty batch",
			records: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectTopics(tt.records, tables).ActiveFlags()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSectorWeightsAreRecomputedPerBatch(t *testing.T) {
	tables := testTables(t)

	boosted := SectorWeights(tables, DetectTopics([]types.NewsRecord{rec("AlphaChip record", "")}, tables))
	if !approxEqual(boosted["Chips"], 1.5) {
		t.Errorf("Expected boosted Chips weight 1.5, got %.4f", boosted["Chips"])
	}

	plain := SectorWeights(tables, DetectTopics([]types.NewsRecord{rec("AlphaChip", "")}, tables))
	if !approxEqual(plain["Chips"], 1.2) {
		t.Errorf("Expected base Chips weight 1.2, got %.4f", plain["Chips"])
	}
	if tables.Sectors[0].Weight != 1.2 {
		t.Errorf("Expected tables to stay unchanged, got weight %.4f", tables.Sectors[0].Weight)
	}
}

func analyzeScores(t *testing.T, records []types.NewsRecord) ([]ScoredName, Mentions) {
	t.Helper()
	tables := testTables(t)
	m := ExtractMentions(records, tables)
	s := ScoreSentiment(records, tables)
	f := DetectTopics(records, tables)
	return CalculateScores(records, m, s, f, tables), m
}

func scoreOf(scored []ScoredName, name string) (float64, bool) {
	for _, s := range scored {
		if s.Name == name {
			return s.Score, true
		}
	}
	return 0, false
}

func TestCalculateScoresScenario(t *testing.T) {
	scored, mentions := analyzeScores(t, scenarioBatch())

	alpha, ok := scoreOf(scored, "AlphaChip")
	if !ok {
		t.Fatal("Expected AlphaChip to be scored")
	}
	beta, ok := scoreOf(scored, "BetaBank")
	if !ok {
		t.Fatal("Expected BetaBank to be scored")
	}

	// (3*10 + 3*1.0*5) * 1.2
	if !approxEqual(alpha, 54) {
		t.Errorf("Expected AlphaChip score 54, got %.4f", alpha)
	}
	// (2*10 + 2*-1.0*5) * 1.0
	if !approxEqual(beta, 10) {
		t.Errorf("Expected BetaBank score 10, got %.4f", beta)
	}
	if alpha <= 0 || beta > alpha {
		t.Errorf("Expected AlphaChip > 0 and BetaBank <= AlphaChip, got %.2f and %.2f", alpha, beta)
	}

	for _, s := range scored {
		if mentions.Count(s.Name) < 1 {
			t.Errorf("Scored name %s has no mentions", s.Name)
		}
	}
}

func TestCalculateScoresTopicBonus(t *testing.T) {
	scored, _ := analyzeScores(t, []types.NewsRecord{rec("AlphaChip hits record", "")})

	// sentiment 1.0: (10 + 5 + bonus 5) * (1.2 + 0.3)
	got, _ := scoreOf(scored, "AlphaChip")
	if !approxEqual(got, 30) {
		t.Errorf("Expected boosted score 30, got %.4f", got)
	}
}

func TestCalculateScoresAllowsNegative(t *testing.T) {
	records := []types.NewsRecord{
		rec("BetaBank loss", "plunge warning"),
	}
	scored, _ := analyzeScores(t, records)

	// base 10 + sentiment -1*5 stays positive with one record; stack bad news to go negative.
	got, _ := scoreOf(scored, "BetaBank")
	if !approxEqual(got, 5) {
		t.Errorf("Expected score 5, got %.4f", got)
	}

	tables := testTables(t)
	m := Mentions{Counts: map[string]int{"BetaBank": 1}, Order: []string{"BetaBank"}}
	sentiments := []float64{-1, -1, -1}
	neg := CalculateScores([]types.NewsRecord{rec("BetaBank", ""), rec("BetaBank", ""), rec("BetaBank", "")}, m, sentiments, TopicFlags{}, tables)
	if len(neg) != 1 || neg[0].Score >= 0 {
		t.Errorf("Expected a negative unclamped score, got %+v", neg)
	}
}

func TestCalculateScoresMonotonicInMentions(t *testing.T) {
	one, _ := analyzeScores(t, []types.NewsRecord{rec("AlphaChip update", "")})
	two, _ := analyzeScores(t, []types.NewsRecord{rec("AlphaChip update", ""), rec("AlphaChip update", "")})

	s1, _ := scoreOf(one, "AlphaChip")
	s2, _ := scoreOf(two, "AlphaChip")
	if s2 <= s1 {
		t.Errorf("Expected more mentions to raise the score, got %.2f then %.2f", s1, s2)
	}
}

func TestCalculateScoresUnregisteredWeight(t *testing.T) {
	tables := testTables(t)
	m := Mentions{Counts: map[string]int{"Loose": 2, "Silent": 0}, Order: []string{"Loose", "Silent"}}

	scored := CalculateScores(nil, m, nil, TopicFlags{}, tables)
	if len(scored) != 1 {
		t.Fatalf("Expected zero-mention names to be dropped, got %+v", scored)
	}
	if scored[0].Score != 20 {
		t.Errorf("Expected weight 1.0 for unregistered name, got score %.2f", scored[0].Score)
	}
}

func TestRankStableDescending(t *testing.T) {
	tables := testTables(t)
	tables.Limits.TopN = 3

	scored := []ScoredName{
		{Name: "A", Score: 5},
		{Name: "B", Score: 7},
		{Name: "C", Score: 5},
		{Name: "D", Score: 1},
	}
	ranked := Rank(scored, Mentions{}, tables)

	var names []string
	for i, r := range ranked {
		names = append(names, r.Name)
		if r.Rank != i+1 {
			t.Errorf("Expected rank %d, got %d", i+1, r.Rank)
		}
		if i > 0 && ranked[i-1].Score < r.Score {
			t.Errorf("Ranking not sorted at %d", i)
		}
	}
	if !reflect.DeepEqual(names, []string{"B", "A", "C"}) {
		t.Errorf("Expected [B A C], got %v", names)
	}
	if scored[0].Name != "A" {
		t.Error("Expected input slice to be left untouched")
	}
}

func TestRankScenarioReasons(t *testing.T) {
	tables := testTables(t)
	scored, mentions := analyzeScores(t, scenarioBatch())

	ranked := Rank(scored, mentions, tables)
	if len(ranked) != 2 {
		t.Fatalf("Expected 2 ranked names, got %d", len(ranked))
	}

	alpha := ranked[0]
	if alpha.Name != "AlphaChip" || alpha.MentionCount != 3 || alpha.Region != types.RegionDomestic {
		t.Errorf("Unexpected top entry: %+v", alpha)
	}
	if alpha.Reason != "Chips sector, very strong momentum, chip demand" {
		t.Errorf("Unexpected AlphaChip reason %q", alpha.Reason)
	}

	beta := ranked[1]
	if beta.Reason != "Banks sector, general expectation, rate outlook" {
		t.Errorf("Unexpected BetaBank reason %q", beta.Reason)
	}
	if beta.Region != types.RegionForeign {
		t.Errorf("Expected BetaBank FOREIGN, got %s", beta.Region)
	}
}

func TestBuildReasonSingleSectorLabel(t *testing.T) {
	tables := testTables(t)

	reason := BuildReason("DualCo", 12, tables)
	if strings.Count(reason, "sector") != 1 {
		t.Errorf("Expected exactly one sector label, got %q", reason)
	}
	if !strings.HasPrefix(reason, "Chips sector") {
		t.Errorf("Expected registry-first sector Chips, got %q", reason)
	}
}

func TestBuildReasonBands(t *testing.T) {
	tables := testTables(t)

	tests := []struct {
		score float64
		want  string
	}{
		{51, "very strong momentum"},
		{50, "strong expectation"},
		{31, "strong expectation"},
		{21, "elevated likelihood"},
		{20, "general expectation"},
		{-4, "general expectation"},
	}
	for _, tt := range tests {
		got := BuildReason("Unlisted", tt.score, tables)
		if got != tt.want {
			t.Errorf("score %.0f: expected %q, got %q", tt.score, tt.want, got)
		}
	}
}

func TestReasonRulesFirstMatchWins(t *testing.T) {
	tables := testTables(t)

	// "AlphaChip" matches both the Chip and Alpha rules; Chip is declared first.
	reason := BuildReason("AlphaChip", 0, tables)
	if strings.Contains(reason, "alpha clause") {
		t.Errorf("Expected only the first matching clause, got %q", reason)
	}
	if !strings.HasSuffix(reason, "chip demand") {
		t.Errorf("Expected chip clause, got %q", reason)
	}
}

func TestClassifyRegionIsTotal(t *testing.T) {
	tables := testTables(t)

	for _, name := range []string{"AlphaChip", "BetaBank", "GammaAI", "", "완전히 다른 이름"} {
		r := ClassifyRegion(name, tables)
		switch r {
		case types.RegionDomestic, types.RegionForeign, types.RegionOther:
		default:
			t.Errorf("ClassifyRegion(%q) returned %q", name, r)
		}
	}
	if ClassifyRegion("GammaAI", tables) != types.RegionOther {
		t.Error("Expected unlisted name to be OTHER")
	}
}

func TestDetectDecliningScenario(t *testing.T) {
	tables := testTables(t)
	batch := scenarioBatch()

	risks := DetectDeclining(batch, ExtractMentions(batch, tables), tables)
	if len(risks) != 1 {
		t.Fatalf("Expected only BetaBank flagged, got %+v", risks)
	}
	if risks[0].Name != "BetaBank" || risks[0].RiskScore != 30 || risks[0].Rank != 1 {
		t.Errorf("Unexpected risk entry: %+v", risks[0])
	}
	if risks[0].Reason != "Banks sector, 2 negative signals" {
		t.Errorf("Unexpected reason %q", risks[0].Reason)
	}
}

func TestDetectDecliningThresholdAndDedupe(t *testing.T) {
	tables := testTables(t)

	records := []types.NewsRecord{
		// GammaAI: one hit + AI risk 5 = 15, below threshold.
		rec("GammaAI warning", ""),
		// AlphaChip: one hit + 10 = 20, exactly at threshold.
		rec("AlphaChip loss", ""),
		// AlphaChip again with three hits: 30 + 10 = 40 replaces 20.
		rec("AlphaChip loss", "plunge warning"),
	}
	risks := DetectDeclining(records, ExtractMentions(records, tables), tables)

	if len(risks) != 1 {
		t.Fatalf("Expected one deduplicated entry, got %+v", risks)
	}
	if risks[0].Name != "AlphaChip" || risks[0].RiskScore != 40 {
		t.Errorf("Expected AlphaChip at max risk 40, got %+v", risks[0])
	}
	if risks[0].Reason != "Chips sector, 3 negative signals" {
		t.Errorf("Expected reason of the maximum hit, got %q", risks[0].Reason)
	}
}

func TestDetectDecliningTopN(t *testing.T) {
	tables := testTables(t)
	tables.Limits.RiskTopN = 1

	records := []types.NewsRecord{
		rec("AlphaChip loss", ""),
		rec("BetaBank loss plunge", ""),
	}
	risks := DetectDeclining(records, ExtractMentions(records, tables), tables)
	if len(risks) != 1 || risks[0].Name != "BetaBank" {
		t.Errorf("Expected only the riskiest name, got %+v", risks)
	}
}

func TestDetectTrends(t *testing.T) {
	tables := testTables(t)

	records := []types.NewsRecord{
		rec("A robot factory opens", ""),
		rec("New robot arm", ""),
		rec("Inside a quantum lab", "first stable qubit"),
	}
	report := DetectTrends(records, tables.EmergingTrends, tables)

	want := []types.CategoryCount{{Category: "Robots", Mentions: 2}}
	if !reflect.DeepEqual(report.Categories, want) {
		t.Errorf("Expected %v, got %v", want, report.Categories)
	}

	// Quantum was hit once: its narrative fires though the category is not surfaced.
	if len(report.Narratives) != 2 {
		t.Fatalf("Expected 2 narratives, got %+v", report.Narratives)
	}
	if report.Narratives[0].ImpactLevel != types.ImpactCritical {
		t.Errorf("Expected CRITICAL narrative first, got %s", report.Narratives[0].ImpactLevel)
	}
	if report.Narratives[1].Category != "Robots" {
		t.Errorf("Expected Robots narrative second, got %s", report.Narratives[1].Category)
	}
}

func TestDetectTrendsNoTrigger(t *testing.T) {
	tables := testTables(t)

	records := []types.NewsRecord{rec("robot", ""), rec("robot", "")}
	report := DetectTrends(records, tables.EmergingTrends, tables)

	if len(report.Categories) != 1 {
		t.Errorf("Expected Robots surfaced, got %v", report.Categories)
	}
	if len(report.Narratives) != 0 {
		t.Errorf("Expected no narratives without triggers, got %v", report.Narratives)
	}
}

func TestDetectTrendsCap(t *testing.T) {
	tables := testTables(t)
	tables.Limits.NarrativeCap = 1

	records := []types.NewsRecord{rec("robot factory", ""), rec("quantum qubit", "")}
	report := DetectTrends(records, tables.EmergingTrends, tables)

	if len(report.Narratives) != 1 || report.Narratives[0].Category != "Quantum" {
		t.Errorf("Expected only the CRITICAL narrative, got %+v", report.Narratives)
	}
}

func TestAnalyzeMarketScenario(t *testing.T) {
	tables := testTables(t)
	batch := scenarioBatch()

	market := AnalyzeMarket(batch, ScoreSentiment(batch, tables), tables)

	if !reflect.DeepEqual(market.HotSectors, []string{"Chips", "Banks"}) {
		t.Errorf("Expected hot sectors [Chips Banks], got %v", market.HotSectors)
	}
	// Mean is exactly 0.2, which is not above the bullish threshold.
	if market.Sentiment != types.SentimentNeutral {
		t.Errorf("Expected NEUTRAL, got %s", market.Sentiment)
	}
}

func TestAnalyzeMarketSentimentLabels(t *testing.T) {
	tables := testTables(t)

	tests := []struct {
		scores []float64
		want   types.MarketSentiment
	}{
		{[]float64{1, 0.5}, types.SentimentBullish},
		{[]float64{-1, -0.5}, types.SentimentBearish},
		{[]float64{0.1, -0.1}, types.SentimentNeutral},
		{nil, types.SentimentNeutral},
	}
	for _, tt := range tests {
		got := AnalyzeMarket(nil, tt.scores, tables).Sentiment
		if got != tt.want {
			t.Errorf("scores %v: expected %s, got %s", tt.scores, tt.want, got)
		}
	}
}

func TestAnalyzeMarketHotSectorCap(t *testing.T) {
	tables := testTables(t)
	tables.Limits.HotSectors = 1

	records := []types.NewsRecord{rec("BetaBank", ""), rec("GammaAI", ""), rec("BetaBank", "")}
	market := AnalyzeMarket(records, nil, tables)
	if !reflect.DeepEqual(market.HotSectors, []string{"Banks"}) {
		t.Errorf("Expected [Banks], got %v", market.HotSectors)
	}
}
