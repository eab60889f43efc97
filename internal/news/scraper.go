package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"stock-ranker/internal/logger"
	"stock-ranker/internal/types"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ArticleSelectors are the CSS selectors used to pull one listing page apart.
// Title, Link, Body and PublishedAt are relative to Article.
type ArticleSelectors struct {
	Article     string
	Title       string
	Link        string
	Body        string
	PublishedAt string
}

// Scraper collects headlines from a news site's listing or search pages.
type Scraper struct {
	name        string
	baseURL     string
	searchPath  string
	queries     []string
	selectors   ArticleSelectors
	timeout     time.Duration
	maxArticles int
}

// NewScraper builds a scraper. searchPath may contain {query}; each query is
// visited in turn. With no queries the path is visited once as is.
func NewScraper(name, baseURL, searchPath string, queries []string, selectors ArticleSelectors, timeout time.Duration, maxArticles int) *Scraper {
	return &Scraper{
		name:        name,
		baseURL:     strings.TrimRight(baseURL, "/"),
		searchPath:  searchPath,
		queries:     queries,
		selectors:   selectors,
		timeout:     timeout,
		maxArticles: maxArticles,
	}
}

func (s *Scraper) Name() string { return s.name }

func (s *Scraper) Fetch(ctx context.Context) ([]types.NewsRecord, error) {
	queries := s.queries
	if len(queries) == 0 {
		queries = []string{""}
	}

	records := []types.NewsRecord{}
	seen := map[string]bool{}
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		if s.maxArticles > 0 && len(records) >= s.maxArticles {
			break
		}
		page, err := s.scrapePage(ctx, s.pageURL(q))
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape page", err, "source", s.name, "query", q)
			continue
		}
		for _, r := range page {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			records = append(records, r)
			if s.maxArticles > 0 && len(records) >= s.maxArticles {
				break
			}
		}
	}
	return records, nil
}

func (s *Scraper) pageURL(query string) string {
	path := strings.ReplaceAll(s.searchPath, "{query}", url.QueryEscape(query))
	return s.baseURL + path
}

func (s *Scraper) scrapePage(ctx context.Context, pageURL string) ([]types.NewsRecord, error) {
	records := []types.NewsRecord{}

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(s.baseURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("User-Agent", userAgent)
	})

	c.OnHTML(s.selectors.Article, func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.ChildText(s.selectors.Title))
		if title == "" {
			return
		}

		link := ""
		if s.selectors.Link != "" {
			link = e.Request.AbsoluteURL(e.ChildAttr(s.selectors.Link, "href"))
		}

		var body, published string
		if s.selectors.Body != "" {
			body = strings.TrimSpace(e.ChildText(s.selectors.Body))
		}
		if s.selectors.PublishedAt != "" {
			published = strings.TrimSpace(e.ChildText(s.selectors.PublishedAt))
		}

		records = append(records, types.NewsRecord{
			Title:         title,
			Body:          body,
			Source:        s.name,
			PublishedDate: published,
			URL:           link,
		})
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = fmt.Errorf("status %d from %s: %w", r.StatusCode, r.Request.URL, err)
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	c.Wait()

	if visitErr != nil {
		return nil, visitErr
	}
	return records, nil
}

func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
