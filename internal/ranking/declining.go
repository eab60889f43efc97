package ranking

import (
	"fmt"
	"sort"

	"stock-ranker/internal/types"
)

type riskCandidate struct {
	name   string
	score  float64
	reason string
}

// DetectDeclining flags names that appear next to negative words. Each
// (record, sector, name) hit scores negHits*10 + sector risk; a name keeps its
// maximum score, and only scores at or above limits.risk_threshold survive.
func DetectDeclining(records []types.NewsRecord, mentions Mentions, tables *Tables) []types.RiskEntry {
	matcher := tables.Matcher()

	best := make(map[string]int)
	var candidates []riskCandidate

	for _, rec := range records {
		text := matcher.Prepare(rec.Text())
		negHits := matcher.CountDistinct(text, tables.NegativeWords)
		if negHits == 0 {
			continue
		}
		for _, sector := range tables.Sectors {
			for _, name := range sector.Names {
				if mentions.Count(name) == 0 || !matcher.Contains(text, name) {
					continue
				}
				risk := float64(negHits)*10 + sector.Risk
				if risk < tables.Limits.RiskThreshold {
					continue
				}
				reason := fmt.Sprintf("%s sector, %d negative signals", sector.Name, negHits)
				if i, ok := best[name]; ok {
					if risk > candidates[i].score {
						candidates[i].score = risk
						candidates[i].reason = reason
					}
					continue
				}
				best[name] = len(candidates)
				candidates = append(candidates, riskCandidate{name: name, score: risk, reason: reason})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	n := min(len(candidates), tables.Limits.RiskTopN)
	out := make([]types.RiskEntry, 0, n)
	for i, c := range candidates[:n] {
		out = append(out, types.RiskEntry{
			Rank:         i + 1,
			Name:         c.name,
			RiskScore:    c.score,
			Reason:       c.reason,
			MentionCount: mentions.Count(c.name),
			Region:       ClassifyRegion(c.name, tables),
		})
	}
	return out
}
