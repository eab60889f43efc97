package resultstore

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CompressOlder gzips stored JSON and CSV files last written before
// retentionDays ago and removes the plain copies. Load still reads them.
// It returns how many files were compressed.
func (s *FileStore) CompressOlder(retentionDays int, now time.Time) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.AddDate(0, 0, -retentionDays)
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	compressed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "stock_ranking_") {
			continue
		}
		if ext := filepath.Ext(name); ext != ".json" && ext != ".csv" {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, name)
		if _, err := os.Stat(path + ".gz"); err == nil {
			_ = os.Remove(path)
			continue
		}
		if err := gzipFile(path); err != nil {
			return compressed, err
		}
		compressed++
	}
	return compressed, nil
}

func gzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(path+".gz", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		os.Remove(path + ".gz")
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}
