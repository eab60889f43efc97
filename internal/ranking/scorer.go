package ranking

import "stock-ranker/internal/types"

// ScoredName is a mentioned name with its bullishness score.
type ScoredName struct {
	Name  string
	Score float64
}

// SectorWeights returns per-batch weights: each sector's base weight plus the
// boosts of every active topic.
func SectorWeights(tables *Tables, flags TopicFlags) map[string]float64 {
	weights := make(map[string]float64, len(tables.Sectors))
	for _, s := range tables.Sectors {
		weights[s.Name] = s.Weight
	}
	for _, topic := range tables.Topics {
		if !flags.Active(topic.Flag) {
			continue
		}
		for sector, boost := range topic.WeightBoosts {
			weights[sector] += boost
		}
	}
	return weights
}

// globalBonus sums the bonuses every active topic grants name.
func globalBonus(name string, tables *Tables, flags TopicFlags) float64 {
	bonus := 0.0
	for _, topic := range tables.Topics {
		if flags.Active(topic.Flag) {
			bonus += topic.Bonuses[name]
		}
	}
	return bonus
}

// weightOf resolves the weight of the first sector listing name, or 1.0.
func weightOf(name string, tables *Tables, weights map[string]float64) float64 {
	sector, ok := tables.SectorOf(name)
	if !ok {
		return 1.0
	}
	if w, ok := weights[sector.Name]; ok {
		return w
	}
	return 1.0
}

// CalculateScores scores every mentioned name in first-seen order:
//
//	(mentions*10 + Σ sentiment*5 over records containing the name + topic bonuses) * sector weight
//
// Names without mentions are never emitted. Scores are not clamped.
func CalculateScores(records []types.NewsRecord, mentions Mentions, sentiments []float64, flags TopicFlags, tables *Tables) []ScoredName {
	matcher := tables.Matcher()
	weights := SectorWeights(tables, flags)

	prepared := make([]string, len(records))
	for i, rec := range records {
		prepared[i] = matcher.Prepare(rec.Text())
	}

	scored := make([]ScoredName, 0, len(mentions.Order))
	for _, name := range mentions.Order {
		count := mentions.Count(name)
		if count == 0 {
			continue
		}
		base := float64(count) * 10

		sentimentBonus := 0.0
		for i, text := range prepared {
			if i < len(sentiments) && matcher.Contains(text, name) {
				sentimentBonus += sentiments[i] * 5
			}
		}

		score := (base + sentimentBonus + globalBonus(name, tables, flags)) * weightOf(name, tables, weights)
		scored = append(scored, ScoredName{Name: name, Score: score})
	}
	return scored
}
