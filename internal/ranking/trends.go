package ranking

import (
	"sort"
	"strings"

	"stock-ranker/internal/types"
)

// DetectTrends scans records against one category table. A record counts at
// most once per category. Categories with at least limits.trend_min_mentions
// hits are surfaced in declaration order. A narrative fires when its category
// was hit at all and one of its triggers appears anywhere in the batch.
func DetectTrends(records []types.NewsRecord, categories []TrendCategory, tables *Tables) types.TrendReport {
	matcher := tables.Matcher()

	hits := make([]int, len(categories))
	for _, rec := range records {
		text := matcher.Prepare(rec.Text())
		for i, c := range categories {
			if matcher.ContainsAny(text, c.Keywords) {
				hits[i]++
			}
		}
	}

	report := types.TrendReport{
		Categories: []types.CategoryCount{},
		Narratives: []types.Narrative{},
	}
	for i, c := range categories {
		if hits[i] >= tables.Limits.TrendMinMentions {
			report.Categories = append(report.Categories, types.CategoryCount{Category: c.Category, Mentions: hits[i]})
		}
	}

	all := batchText(records)
	for i, c := range categories {
		if hits[i] == 0 {
			continue
		}
		for _, rule := range c.Narratives {
			if !anyTrigger(all, rule.Triggers) {
				continue
			}
			report.Narratives = append(report.Narratives, types.Narrative{
				Category:     c.Category,
				Headline:     rule.Headline,
				ImpactLevel:  rule.Impact,
				RelatedNames: append([]string(nil), rule.Related...),
				Rationale:    rule.Rationale,
			})
		}
	}

	sort.SliceStable(report.Narratives, func(i, j int) bool {
		return report.Narratives[i].ImpactLevel.Rank() > report.Narratives[j].ImpactLevel.Rank()
	})
	if len(report.Narratives) > tables.Limits.NarrativeCap {
		report.Narratives = report.Narratives[:tables.Limits.NarrativeCap]
	}
	return report
}

// anyTrigger matches triggers case-insensitively against lower-cased text.
func anyTrigger(lowered string, triggers []string) bool {
	for _, t := range triggers {
		if t != "" && strings.Contains(lowered, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
