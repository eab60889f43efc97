package ranking

import (
	"strings"

	"stock-ranker/internal/types"
)

// TopicFlags holds one boolean per declared topic, in declaration order.
type TopicFlags struct {
	names  []string
	active map[string]bool
}

func (f TopicFlags) Active(flag string) bool {
	return f.active[flag]
}

// ActiveFlags lists the set flags in declaration order.
func (f TopicFlags) ActiveFlags() []string {
	out := make([]string, 0, len(f.names))
	for _, n := range f.names {
		if f.active[n] {
			out = append(out, n)
		}
	}
	return out
}

// batchText joins every record and lower-cases the result once.
func batchText(records []types.NewsRecord) string {
	var b strings.Builder
	for i, rec := range records {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(rec.Text())
	}
	return strings.ToLower(b.String())
}

// DetectTopics evaluates every topic against the whole batch. Keywords that
// satisfy different groups may come from different records.
func DetectTopics(records []types.NewsRecord, tables *Tables) TopicFlags {
	text := batchText(records)
	flags := TopicFlags{
		names:  make([]string, 0, len(tables.Topics)),
		active: make(map[string]bool, len(tables.Topics)),
	}
	for _, topic := range tables.Topics {
		flags.names = append(flags.names, topic.Flag)
		flags.active[topic.Flag] = len(text) > 0 && requireAll(text, topic.Require)
	}
	return flags
}

func requireAll(text string, groups [][]string) bool {
	for _, group := range groups {
		hit := false
		for _, word := range group {
			if strings.Contains(text, strings.ToLower(word)) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
