package news

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"stock-ranker/internal/types"
)

// SampleSource reads records from a JSON array on disk. It is used for
// offline runs and demos.
type SampleSource struct {
	name        string
	path        string
	maxArticles int
}

func NewSampleSource(name, path string, maxArticles int) *SampleSource {
	return &SampleSource{name: name, path: path, maxArticles: maxArticles}
}

func (s *SampleSource) Name() string { return s.name }

func (s *SampleSource) Fetch(ctx context.Context) ([]types.NewsRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample news %s: %w", s.path, err)
	}

	var records []types.NewsRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("failed to parse sample news %s: %w", s.path, err)
	}

	if s.maxArticles > 0 && len(records) > s.maxArticles {
		records = records[:s.maxArticles]
	}
	for i := range records {
		if records[i].Source == "" {
			records[i].Source = s.name
		}
	}
	return records, nil
}
