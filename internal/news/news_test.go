package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stock-ranker/internal/interfaces"
	"stock-ranker/internal/store"
	"stock-ranker/internal/types"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Markets</title>
<item>
  <title>TSMC posts record quarter</title>
  <link>https://example.com/tsmc</link>
  <description>&lt;p&gt;Foundry &lt;b&gt;earnings&lt;/b&gt; beat&lt;/p&gt;</description>
  <pubDate>Tue, 01 Jul 2025 09:00:00 GMT</pubDate>
</item>
<item>
  <title>NVIDIA guidance lifts chip stocks</title>
  <link>https://example.com/nvda</link>
  <description>AI demand stays strong</description>
</item>
<item>
  <title></title>
  <link>https://example.com/empty</link>
</item>
</channel>
</rss>`

func TestRSSSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedXML)
	}))
	defer srv.Close()

	src := NewRSSSource("Markets", srv.URL, 0)
	records, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Body != "Foundry earnings beat" {
		t.Errorf("Expected HTML stripped body, got %q", records[0].Body)
	}
	if records[0].PublishedDate != "2025-07-01T09:00:00Z" {
		t.Errorf("Unexpected published date %q", records[0].PublishedDate)
	}
	if records[1].Source != "Markets" || records[1].URL != "https://example.com/nvda" {
		t.Errorf("Unexpected record %+v", records[1])
	}

	limited, _ := NewRSSSource("Markets", srv.URL, 1).Fetch(context.Background())
	if len(limited) != 1 {
		t.Errorf("Expected max articles to cap at 1, got %d", len(limited))
	}
}

func TestRSSSourceBadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewRSSSource("Broken", srv.URL, 0).Fetch(context.Background()); err == nil {
		t.Error("Expected error for failing feed")
	}
}

const listingHTML = `<html><body>
<div class="story"><h2><a href="/news/1">SK Hynix ships HBM4 samples</a></h2><p>Memory surge continues</p><time>2 hours ago</time></div>
<div class="story"><h2><a href="/news/2">Samsung Electronics expands foundry</a></h2><p>New fab</p></div>
<div class="story"><h2></h2><p>no title</p></div>
</body></html>`

func TestScraperFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, listingHTML)
	}))
	defer srv.Close()

	s := NewScraper("Listing", srv.URL, "/search?q={query}", []string{"hbm memory"}, ArticleSelectors{
		Article:     "div.story",
		Title:       "h2 a",
		Link:        "h2 a",
		Body:        "p",
		PublishedAt: "time",
	}, 5*time.Second, 10)

	records, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "hbm memory" {
		t.Errorf("Expected escaped query to round trip, got %q", gotQuery)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].URL != srv.URL+"/news/1" {
		t.Errorf("Expected absolute link, got %s", records[0].URL)
	}
	if records[0].Body != "Memory surge continues" || records[0].PublishedDate != "2 hours ago" {
		t.Errorf("Unexpected first record %+v", records[0])
	}
	if records[1].PublishedDate != "" {
		t.Errorf("Missing published date must stay empty, got %q", records[1].PublishedDate)
	}
}

func TestScraperFailedPageYieldsNoRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewScraper("Missing", srv.URL, "/nothing", nil, ArticleSelectors{Article: "div", Title: "h2"}, time.Second, 10)
	records, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestSampleSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	data := `[{"title":"OpenAI unveils Titan chip","body":"custom silicon"},{"title":"Fed signals cuts","source":"Wire"}]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := NewSampleSource("Sample", path, 0).Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Source != "Sample" || records[1].Source != "Wire" {
		t.Errorf("Unexpected sample records %+v", records)
	}

	if _, err := NewSampleSource("Missing", filepath.Join(t.TempDir(), "none.json"), 0).Fetch(context.Background()); err == nil {
		t.Error("Expected error for a missing file")
	}
}

type fakeSource struct {
	name    string
	records []types.NewsRecord
	err     error
	delay   time.Duration
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context) ([]types.NewsRecord, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.records, f.err
}

func titled(titles ...string) []types.NewsRecord {
	out := make([]types.NewsRecord, len(titles))
	for i, title := range titles {
		out[i] = types.NewsRecord{Title: title}
	}
	return out
}

func TestServiceCollectKeepsSourceOrder(t *testing.T) {
	domestic := []interfaces.NewsSource{
		&fakeSource{name: "slow", records: titled("d1", "d2"), delay: 30 * time.Millisecond},
		&fakeSource{name: "broken", err: errors.New("boom")},
		&fakeSource{name: "fast", records: titled("d3")},
	}
	global := []interfaces.NewsSource{
		&fakeSource{name: "wire", records: titled("g1")},
	}

	batch := NewService(domestic, global, time.Second).Collect(context.Background())

	if len(batch.Domestic) != 3 {
		t.Fatalf("Expected 3 domestic records, got %d", len(batch.Domestic))
	}
	for i, want := range []string{"d1", "d2", "d3"} {
		if batch.Domestic[i].Title != want {
			t.Errorf("Domestic[%d] = %s, want %s", i, batch.Domestic[i].Title, want)
		}
	}
	if len(batch.Global) != 1 || batch.Global[0].Title != "g1" {
		t.Errorf("Unexpected global records %+v", batch.Global)
	}
}

func TestServiceCollectTimesOutSlowSources(t *testing.T) {
	domestic := []interfaces.NewsSource{
		&fakeSource{name: "hung", records: titled("late"), delay: time.Second},
		&fakeSource{name: "ok", records: titled("on time")},
	}

	batch := NewService(domestic, nil, 20*time.Millisecond).Collect(context.Background())
	if len(batch.Domestic) != 1 || batch.Domestic[0].Title != "on time" {
		t.Errorf("Expected only the on-time record, got %+v", batch.Domestic)
	}
	if batch.Global == nil || len(batch.Global) != 0 {
		t.Errorf("Expected empty global slice, got %#v", batch.Global)
	}
}

func TestNewServiceFromConfig(t *testing.T) {
	cfg, err := store.ParseConfig([]byte(`
news:
  sources:
    - name: Wire
      kind: rss
      region: global
      url: https://example.com/feed
    - name: Local
      kind: sample
      region: domestic
      file: data/sample.json
`))
	if err != nil {
		t.Fatal(err)
	}

	svc, err := NewServiceFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(svc.domestic) != 1 || len(svc.global) != 1 {
		t.Fatalf("Expected one source per region, got %d and %d", len(svc.domestic), len(svc.global))
	}
	if svc.domestic[0].Name() != "Local" || svc.global[0].Name() != "Wire" {
		t.Errorf("Unexpected sources %s %s", svc.domestic[0].Name(), svc.global[0].Name())
	}
}
