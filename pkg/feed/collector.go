package feed

import (
	"context"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

// Fetcher parses one configured source
type Fetcher interface {
	Parse(ctx context.Context, src domain.Source) ([]domain.Item, error)
}

// Collector fetches all configured sources concurrently. A failing source
// is logged and skipped; collection never fails as a whole.
type Collector struct {
	fetcher Fetcher
	sources []domain.Source
	workers int
}

// NewCollector creates a collector over the configured sources
func NewCollector(fetcher Fetcher, sources []domain.Source, workers int) *Collector {
	if workers <= 0 {
		workers = 4
	}
	return &Collector{fetcher: fetcher, sources: sources, workers: workers}
}

// Collect fetches every source and returns the combined normalized items,
// in source configuration order
func (c *Collector) Collect(ctx context.Context) []domain.Item {
	perSource := make([][]domain.Item, len(c.sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, src := range c.sources {
		g.Go(func() error {
			items, err := c.fetcher.Parse(ctx, src)
			if err != nil {
				lgr.Printf("[WARN] source %q failed: %v", src.Name, err)
				return nil // skip the source, keep collecting
			}
			perSource[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.Item
	for _, items := range perSource {
		all = append(all, items...)
	}
	lgr.Printf("[INFO] collected %d items from %d sources", len(all), len(c.sources))
	return all
}
