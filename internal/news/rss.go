package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"stock-ranker/internal/types"
)

// RSSSource reads an RSS or Atom feed.
type RSSSource struct {
	name        string
	url         string
	maxArticles int
	parser      *gofeed.Parser
}

func NewRSSSource(name, feedURL string, maxArticles int) *RSSSource {
	return &RSSSource{
		name:        name,
		url:         feedURL,
		maxArticles: maxArticles,
		parser:      gofeed.NewParser(),
	}
}

func (r *RSSSource) Name() string { return r.name }

func (r *RSSSource) Fetch(ctx context.Context) ([]types.NewsRecord, error) {
	feed, err := r.parser.ParseURLWithContext(r.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", r.name, err)
	}

	records := make([]types.NewsRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		if r.maxArticles > 0 && len(records) >= r.maxArticles {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		body := item.Description
		if body == "" {
			body = item.Content
		}

		rec := types.NewsRecord{
			Title:  title,
			Body:   cleanHTML(body),
			Source: r.name,
			URL:    item.Link,
		}
		if item.PublishedParsed != nil {
			rec.PublishedDate = item.PublishedParsed.Format(time.RFC3339)
		} else {
			rec.PublishedDate = item.Published
		}
		records = append(records, rec)
	}
	return records, nil
}

// cleanHTML strips tags from a feed summary.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
