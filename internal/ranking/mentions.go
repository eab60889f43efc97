package ranking

import "stock-ranker/internal/types"

// Mentions counts, per registered name, the records whose text contains it.
// Order lists names by first sighting: record order, then registry order.
type Mentions struct {
	Counts map[string]int
	Order  []string
}

// Count returns the mention count of name (0 when never seen).
func (m Mentions) Count(name string) int {
	return m.Counts[name]
}

func (m Mentions) Len() int {
	return len(m.Order)
}

// ExtractMentions scans every record once per registered name. A record adds
// at most one mention to a name, even when several sectors list it.
func ExtractMentions(records []types.NewsRecord, tables *Tables) Mentions {
	matcher := tables.Matcher()
	m := Mentions{Counts: make(map[string]int)}

	for _, rec := range records {
		text := matcher.Prepare(rec.Text())
		counted := make(map[string]bool)
		for _, sector := range tables.Sectors {
			for _, name := range sector.Names {
				if counted[name] || !matcher.Contains(text, name) {
					continue
				}
				counted[name] = true
				if _, ok := m.Counts[name]; !ok {
					m.Order = append(m.Order, name)
				}
				m.Counts[name]++
			}
		}
	}
	return m
}
