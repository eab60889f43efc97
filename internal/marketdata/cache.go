package marketdata

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Cache is a file-backed store for looked-up returns. Entries expire by
// file modification time.
type Cache struct {
	dir string
	ttl time.Duration
	mu  sync.RWMutex
}

type cacheEntry struct {
	Key      string    `json:"key"`
	Return   float64   `json:"return"`
	StoredAt time.Time `json:"stored_at"`
}

func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		dir = ".cache/returns"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

func (c *Cache) Get(key string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		os.Remove(path)
		return 0, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Key != key {
		return 0, false
	}
	return entry.Return, true
}

func (c *Cache) Set(key string, ret float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(cacheEntry{Key: key, Return: ret, StoredAt: time.Now()})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), data, 0644)
}

// CleanupExpired removes entries older than the TTL and reports how many went.
func (c *Cache) CleanupExpired() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
			if os.Remove(filepath.Join(c.dir, e.Name())) == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// GetOrFetch returns the cached value for key or stores what fetch returns.
// Fetch errors are never cached.
func (c *Cache) GetOrFetch(key string, fetch func() (float64, error)) (float64, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := fetch()
	if err != nil {
		return 0, err
	}
	_ = c.Set(key, v)
	return v, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%x.json", md5.Sum([]byte(key))))
}

// MakeKey joins key parts with a separator that cannot appear in dates.
func MakeKey(parts ...string) string {
	return strings.Join(parts, "|")
}
