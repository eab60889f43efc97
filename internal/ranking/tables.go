package ranking

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stock-ranker/internal/types"
)

//go:embed tables.yaml
var defaultTables []byte

// Sector groups related names under one scoring weight and risk constant.
type Sector struct {
	Name   string   `yaml:"name"`
	Weight float64  `yaml:"weight"`
	Risk   float64  `yaml:"risk"`
	Names  []string `yaml:"names"`
}

// Topic is a batch-level event flag. Every group in Require must have at
// least one member present in the lower-cased batch text.
type Topic struct {
	Flag         string             `yaml:"flag"`
	Require      [][]string         `yaml:"require"`
	Bonuses      map[string]float64 `yaml:"bonuses"`
	WeightBoosts map[string]float64 `yaml:"weight_boosts"`
}

type ScoreBand struct {
	Above  float64 `yaml:"above"`
	Phrase string  `yaml:"phrase"`
}

// ReasonRule appends Text when the name contains any of Contains.
type ReasonRule struct {
	Contains []string `yaml:"contains"`
	Text     string   `yaml:"text"`
}

type Regions struct {
	Domestic []string `yaml:"domestic"`
	Foreign  []string `yaml:"foreign"`
}

type NarrativeRule struct {
	Triggers  []string          `yaml:"triggers"`
	Headline  string            `yaml:"headline"`
	Impact    types.ImpactLevel `yaml:"impact"`
	Related   []string          `yaml:"related"`
	Rationale string            `yaml:"rationale"`
}

type TrendCategory struct {
	Category   string          `yaml:"category"`
	Keywords   []string        `yaml:"keywords"`
	Narratives []NarrativeRule `yaml:"narratives"`
}

type MatchOptions struct {
	FoldCase     bool `yaml:"fold_case"`
	WordBoundary bool `yaml:"word_boundary"`
}

type Limits struct {
	TopN             int     `yaml:"top_n"`
	RiskTopN         int     `yaml:"risk_top_n"`
	RiskThreshold    float64 `yaml:"risk_threshold"`
	TrendMinMentions int     `yaml:"trend_min_mentions"`
	NarrativeCap     int     `yaml:"narrative_cap"`
	HotSectors       int     `yaml:"hot_sectors"`
	BullishAbove     float64 `yaml:"bullish_above"`
	BearishBelow     float64 `yaml:"bearish_below"`
}

// Tables is the read-only keyword data every scanner consumes. It is loaded
// once and shared; nothing in this package mutates it after Validate.
type Tables struct {
	Match               MatchOptions    `yaml:"match"`
	Sectors             []Sector        `yaml:"sectors"`
	PositiveWords       []string        `yaml:"positive_words"`
	NegativeWords       []string        `yaml:"negative_words"`
	Topics              []Topic         `yaml:"topics"`
	ScoreBands          []ScoreBand     `yaml:"score_bands"`
	DefaultPhrase       string          `yaml:"default_phrase"`
	ReasonRules         []ReasonRule    `yaml:"reason_rules"`
	Regions             Regions         `yaml:"regions"`
	EmergingTrends      []TrendCategory `yaml:"emerging_trends"`
	InfluentialEntities []TrendCategory `yaml:"influential_entities"`
	Limits              Limits          `yaml:"limits"`
}

// Default returns the embedded tables.
func Default() (*Tables, error) {
	return Parse(defaultTables)
}

// Load reads tables from path, or the embedded defaults when path is empty.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes tables over the default limits, so a limit set to 0 in the
// YAML stays 0 and only omitted limits take their defaults.
func Parse(b []byte) (*Tables, error) {
	t := Tables{Limits: defaultLimits()}
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}
	t.applyDefaults()
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("tables validation failed: %w", err)
	}
	return &t, nil
}

func (t *Tables) applyDefaults() {
	for i := range t.Sectors {
		if t.Sectors[i].Weight == 0 {
			t.Sectors[i].Weight = 1.0
		}
	}
	if len(t.ScoreBands) == 0 {
		t.ScoreBands = []ScoreBand{
			{Above: 50, Phrase: "very strong momentum"},
			{Above: 30, Phrase: "strong expectation"},
			{Above: 20, Phrase: "elevated likelihood"},
		}
	}
	if t.DefaultPhrase == "" {
		t.DefaultPhrase = "general expectation"
	}
}

func defaultLimits() Limits {
	return Limits{
		TopN:             10,
		RiskTopN:         5,
		RiskThreshold:    20,
		TrendMinMentions: 2,
		NarrativeCap:     3,
		HotSectors:       3,
		BullishAbove:     0.2,
		BearishBelow:     -0.2,
	}
}

func (t *Tables) Validate() error {
	if len(t.Sectors) == 0 {
		return errors.New("at least one sector is required")
	}
	seen := make(map[string]bool, len(t.Sectors))
	for _, s := range t.Sectors {
		if s.Name == "" {
			return errors.New("sector name cannot be empty")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate sector %q", s.Name)
		}
		seen[s.Name] = true
		if s.Weight <= 0 {
			return fmt.Errorf("sector %q weight must be positive, got %.2f", s.Name, s.Weight)
		}
	}
	for _, tp := range t.Topics {
		if tp.Flag == "" {
			return errors.New("topic flag cannot be empty")
		}
		if len(tp.Require) == 0 {
			return fmt.Errorf("topic %q has no required keywords", tp.Flag)
		}
		for sector := range tp.WeightBoosts {
			if !seen[sector] {
				return fmt.Errorf("topic %q boosts unknown sector %q", tp.Flag, sector)
			}
		}
	}
	for _, cats := range [][]TrendCategory{t.EmergingTrends, t.InfluentialEntities} {
		for _, c := range cats {
			for _, n := range c.Narratives {
				if !n.Impact.Valid() {
					return fmt.Errorf("category %q narrative %q has invalid impact %q", c.Category, n.Headline, n.Impact)
				}
			}
		}
	}
	if t.Limits.TopN < 0 || t.Limits.RiskTopN < 0 || t.Limits.NarrativeCap < 0 {
		return errors.New("limits cannot be negative")
	}
	return nil
}

// Matcher returns the containment test configured by Match.
func (t *Tables) Matcher() Matcher {
	return Matcher{FoldCase: t.Match.FoldCase, WordBoundary: t.Match.WordBoundary}
}

// SectorOf returns the first sector in registry order listing name.
func (t *Tables) SectorOf(name string) (Sector, bool) {
	for _, s := range t.Sectors {
		for _, n := range s.Names {
			if n == name {
				return s, true
			}
		}
	}
	return Sector{}, false
}
