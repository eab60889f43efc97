package ranking

import (
	"testing"

	"stock-ranker/internal/types"
)

const testTablesYAML = `
sectors:
  - name: Chips
    weight: 1.2
    risk: 10
    names: [AlphaChip, DualCo]
  - name: Banks
    risk: 10
    names: [BetaBank]
  - name: AI
    weight: 1.5
    risk: 5
    names: [DualCo, GammaAI]
positive_words: [surge, record, growth]
negative_words: [loss, plunge, warning]
topics:
  - flag: chip_boom
    require: [[alphachip], [record, boom]]
    bonuses: {AlphaChip: 5}
    weight_boosts: {Chips: 0.3}
  - flag: rates
    require: [[central bank]]
    bonuses: {BetaBank: 4}
reason_rules:
  - contains: [Chip]
    text: chip demand
  - contains: [Alpha]
    text: alpha clause
  - contains: [Bank]
    text: rate outlook
regions:
  domestic: [AlphaChip, DualCo]
  foreign: [BetaBank]
emerging_trends:
  - category: Robots
    keywords: [robot]
    narratives:
      - triggers: [factory]
        headline: Robots reach factories
        impact: MEDIUM
        related: [GammaAI]
        rationale: automation orders
  - category: Quantum
    keywords: [quantum]
    narratives:
      - triggers: [qubit]
        headline: Qubit milestone
        impact: CRITICAL
        related: [AlphaChip]
        rationale: new compute class
influential_entities:
  - category: Central Bank
    keywords: [central bank, governor]
    narratives:
      - triggers: [rate cut]
        headline: Easing ahead
        impact: HIGH
        related: [BetaBank]
        rationale: cheaper money
`

func testTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := Parse([]byte(testTablesYAML))
	if err != nil {
		t.Fatalf("Failed to parse test tables: %v", err)
	}
	return tables
}

func rec(title, body string) types.NewsRecord {
	return types.NewsRecord{Title: title, Body: body, Source: "test"}
}

// scenarioBatch has three positive AlphaChip records and two negative
// BetaBank records with no sector overlap.
func scenarioBatch() []types.NewsRecord {
	return []types.NewsRecord{
		rec("AlphaChip shares surge", "growth ahead"),
		rec("AlphaChip orders surge", "strong growth"),
		rec("AlphaChip outlook", "growth in every segment"),
		rec("BetaBank posts loss", "shares plunge"),
		rec("BetaBank warning", "another loss expected"),
	}
}

func approxEqual(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	return d < eps && d > -eps
}
