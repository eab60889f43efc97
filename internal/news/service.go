package news

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"stock-ranker/internal/interfaces"
	"stock-ranker/internal/logger"
	"stock-ranker/internal/store"
	"stock-ranker/internal/types"
)

// Service fans out over the domestic and global sources. Records keep the
// configured source order regardless of which fetch finishes first.
type Service struct {
	domestic []interfaces.NewsSource
	global   []interfaces.NewsSource
	timeout  time.Duration
}

func NewService(domestic, global []interfaces.NewsSource, timeout time.Duration) *Service {
	return &Service{domestic: domestic, global: global, timeout: timeout}
}

// NewServiceFromConfig builds one source per configured entry.
func NewServiceFromConfig(cfg *store.Config) (*Service, error) {
	var domestic, global []interfaces.NewsSource
	for _, sc := range cfg.News.Sources {
		src, err := newSource(sc, cfg.NewsTimeout(), cfg.News.MaxArticles)
		if err != nil {
			return nil, err
		}
		if sc.Region == "domestic" {
			domestic = append(domestic, src)
		} else {
			global = append(global, src)
		}
	}
	return NewService(domestic, global, cfg.NewsTimeout()), nil
}

func newSource(sc store.NewsSourceConfig, timeout time.Duration, maxArticles int) (interfaces.NewsSource, error) {
	switch sc.Kind {
	case "rss":
		return NewRSSSource(sc.Name, sc.URL, maxArticles), nil
	case "scrape":
		return NewScraper(sc.Name, sc.URL, sc.SearchPath, sc.Queries, ArticleSelectors{
			Article:     sc.Selectors.Article,
			Title:       sc.Selectors.Title,
			Link:        sc.Selectors.Link,
			Body:        sc.Selectors.Body,
			PublishedAt: sc.Selectors.PublishedAt,
		}, timeout, maxArticles), nil
	case "sample":
		return NewSampleSource(sc.Name, sc.File, maxArticles), nil
	default:
		return nil, fmt.Errorf("unknown news source kind '%s' for '%s'", sc.Kind, sc.Name)
	}
}

// Collect never fails: a source that errors or times out contributes nothing.
func (s *Service) Collect(ctx context.Context) types.NewsBatch {
	var batch types.NewsBatch
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		batch.Domestic = s.fetchAll(gctx, s.domestic)
		return nil
	})
	g.Go(func() error {
		batch.Global = s.fetchAll(gctx, s.global)
		return nil
	})
	_ = g.Wait()
	return batch
}

func (s *Service) fetchAll(ctx context.Context, sources []interfaces.NewsSource) []types.NewsRecord {
	perSource := make([][]types.NewsRecord, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			fetchCtx := gctx
			if s.timeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(gctx, s.timeout)
				defer cancel()
			}

			records, err := src.Fetch(fetchCtx)
			if err != nil {
				logger.ErrorWithErr(ctx, "News source failed", err, "source", src.Name())
				return nil
			}
			perSource[i] = records
			return nil
		})
	}
	_ = g.Wait()

	all := []types.NewsRecord{}
	for _, records := range perSource {
		all = append(all, records...)
	}
	return all
}
