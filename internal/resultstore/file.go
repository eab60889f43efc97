package resultstore

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"stock-ranker/internal/types"
)

const dateLayout = "2006-01-02"

var ErrNotFound = errors.New("no stored result for date")

var csvHeader = []string{
	"rank", "stock_name", "score", "reason", "mention_count", "region",
	"date", "market_sentiment", "global_sentiment", "domestic_news", "global_news",
}

// FileStore keeps one JSON document and one CSV table per date under dir.
// A later run on the same date replaces the earlier files.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) jsonPath(date string) string {
	return filepath.Join(s.dir, "stock_ranking_"+date+".json")
}

func (s *FileStore) csvPath(date string) string {
	return filepath.Join(s.dir, "stock_ranking_"+date+".csv")
}

func (s *FileStore) Save(ctx context.Context, result *types.DailyResult) error {
	if result == nil {
		return errors.New("cannot save nil result")
	}
	if _, err := time.Parse(dateLayout, result.Date); err != nil {
		return fmt.Errorf("invalid result date %q: %w", result.Date, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.jsonPath(result.Date), b); err != nil {
		return err
	}
	// A fresh document supersedes any compressed copy from an earlier run.
	_ = os.Remove(s.jsonPath(result.Date) + ".gz")

	return s.writeCSV(result)
}

func (s *FileStore) writeCSV(result *types.DailyResult) error {
	out, err := os.Create(s.csvPath(result.Date))
	if err != nil {
		return err
	}
	defer out.Close()

	globalSentiment := ""
	if result.GlobalMarket != nil {
		globalSentiment = result.GlobalMarket.Sentiment
	}

	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range result.Top10 {
		rec := []string{
			strconv.Itoa(e.Rank),
			e.Name,
			strconv.FormatFloat(e.Score, 'f', 2, 64),
			e.Reason,
			strconv.Itoa(e.MentionCount),
			string(e.Region),
			result.Date,
			string(result.MarketSentiment),
			globalSentiment,
			strconv.Itoa(result.NewsCounts.Domestic),
			strconv.Itoa(result.NewsCounts.Global),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Load reads the result stored for date, plain or compressed.
func (s *FileStore) Load(ctx context.Context, date time.Time) (*types.DailyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	day := date.Format(dateLayout)
	b, err := s.readDocument(day)
	if err != nil {
		return nil, err
	}

	var result types.DailyResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, fmt.Errorf("failed to parse stored result %s: %w", day, err)
	}
	return &result, nil
}

func (s *FileStore) readDocument(day string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.jsonPath(day)
	b, err := os.ReadFile(path)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	f, err := os.Open(path + ".gz")
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, day)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open compressed result %s: %w", day, err)
	}
	defer gr.Close()
	return io.ReadAll(gr)
}

// LoadRange returns every stored result with from <= date <= to, oldest
// first. Missing dates are skipped; unreadable documents are errors.
func (s *FileStore) LoadRange(ctx context.Context, from, to time.Time) ([]types.DailyResult, error) {
	start := truncateDay(from)
	end := truncateDay(to)

	results := []types.DailyResult{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		r, err := s.Load(ctx, d)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
