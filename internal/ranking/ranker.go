package ranking

import (
	"sort"
	"strings"

	"stock-ranker/internal/types"
)

// Rank sorts scored names descending (ties keep input order), keeps the top
// limits.top_n and attaches reason, mention count and region to each.
func Rank(scored []ScoredName, mentions Mentions, tables *Tables) []types.RankedEntry {
	sorted := make([]ScoredName, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	n := min(len(sorted), tables.Limits.TopN)
	ranked := make([]types.RankedEntry, 0, n)
	for i, s := range sorted[:n] {
		ranked = append(ranked, types.RankedEntry{
			Rank:         i + 1,
			Name:         s.Name,
			Score:        s.Score,
			Reason:       BuildReason(s.Name, s.Score, tables),
			MentionCount: mentions.Count(s.Name),
			Region:       ClassifyRegion(s.Name, tables),
		})
	}
	return ranked
}

// BuildReason joins the first sector label, the score band phrase and at most
// one reason rule clause.
func BuildReason(name string, score float64, tables *Tables) string {
	parts := make([]string, 0, 3)
	if sector, ok := tables.SectorOf(name); ok {
		parts = append(parts, sector.Name+" sector")
	}
	parts = append(parts, scorePhrase(score, tables))
	if clause, ok := reasonClause(name, tables.ReasonRules); ok {
		parts = append(parts, clause)
	}
	return strings.Join(parts, ", ")
}

func scorePhrase(score float64, tables *Tables) string {
	for _, band := range tables.ScoreBands {
		if score > band.Above {
			return band.Phrase
		}
	}
	return tables.DefaultPhrase
}

// reasonClause evaluates rules top to bottom; the first rule whose substring
// occurs in name wins.
func reasonClause(name string, rules []ReasonRule) (string, bool) {
	for _, rule := range rules {
		for _, sub := range rule.Contains {
			if sub != "" && strings.Contains(name, sub) {
				return rule.Text, true
			}
		}
	}
	return "", false
}

// ClassifyRegion returns DOMESTIC, FOREIGN or OTHER for any input.
func ClassifyRegion(name string, tables *Tables) types.Region {
	for _, n := range tables.Regions.Domestic {
		if n == name {
			return types.RegionDomestic
		}
	}
	for _, n := range tables.Regions.Foreign {
		if n == name {
			return types.RegionForeign
		}
	}
	return types.RegionOther
}
