package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/awano27/new-ai-news-site/pkg/classify"
	"github.com/awano27/new-ai-news-site/pkg/domain"
	"github.com/awano27/new-ai-news-site/pkg/keypoints"
)

// Collector gathers normalized items from the configured sources
type Collector interface {
	Collect(ctx context.Context) []domain.Item
}

// Enricher upgrades thin feed summaries with extracted article text
type Enricher interface {
	Enrich(ctx context.Context, item *domain.Item, minRunes int) error
}

// Scorer evaluates items for every persona and assigns composite scores
type Scorer interface {
	ScoreAll(ctx context.Context, items []domain.Item) []domain.ScoredItem
}

// Store persists pipeline output
type Store interface {
	SaveItems(ctx context.Context, items []domain.ScoredItem) error
	DeleteOldItems(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Config holds pipeline configuration
type Config struct {
	Interval        time.Duration // delay between runs
	MinItems        int           // floor for the coverage guarantee padding
	KeyPoints       int           // highlights extracted per item
	MinSummaryRunes int           // summaries shorter than this get content extraction
	Retention       time.Duration // items first stored earlier than this are dropped, zero keeps everything
	MaxWorkers      int
}

// Pipeline periodically collects, scores, classifies and stores news items
type Pipeline struct {
	collector Collector
	enricher  Enricher // optional, nil disables content extraction
	scorer    Scorer
	store     Store
	cfg       Config

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New creates a pipeline; enricher may be nil
func New(collector Collector, enricher Enricher, scorer Scorer, store Store, cfg Config) *Pipeline {
	if cfg.Interval == 0 {
		cfg.Interval = 30 * time.Minute
	}
	if cfg.MinItems == 0 {
		cfg.MinItems = classify.MinItems
	}
	if cfg.KeyPoints == 0 {
		cfg.KeyPoints = 3
	}
	if cfg.MinSummaryRunes == 0 {
		cfg.MinSummaryRunes = 120
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 5
	}

	return &Pipeline{
		collector: collector,
		enricher:  enricher,
		scorer:    scorer,
		store:     store,
		cfg:       cfg,
	}
}

// Start begins periodic runs, the first one immediately
func (p *Pipeline) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.worker(ctx)

	lgr.Printf("[INFO] pipeline started with interval %v", p.cfg.Interval)
}

// Stop gracefully stops the pipeline
func (p *Pipeline) Stop() {
	lgr.Printf("[INFO] stopping pipeline...")
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	lgr.Printf("[INFO] pipeline stopped")
}

func (p *Pipeline) worker(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// run immediately on start
	if err := p.RunOnce(ctx); err != nil {
		lgr.Printf("[ERROR] pipeline run failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.RunOnce(ctx); err != nil {
				lgr.Printf("[ERROR] pipeline run failed: %v", err)
			}
		}
	}
}

// RunOnce executes a single collect-score-classify-store cycle
func (p *Pipeline) RunOnce(ctx context.Context) error {
	started := time.Now()

	items := p.collector.Collect(ctx)
	p.enrichAll(ctx, items)

	scored := p.scorer.ScoreAll(ctx, items)
	classify.Apply(scored)
	scored = classify.EnsureMinimum(scored, p.cfg.MinItems, time.Now())

	for i := range scored {
		if scored[i].IsPlaceholder() {
			continue
		}
		text := scored[i].Title + ". " + scored[i].Summary
		scored[i].KeyPoints = keypoints.Extract(text, p.cfg.KeyPoints, domain.PersonaEngineer)
	}

	if err := p.store.SaveItems(ctx, scored); err != nil {
		return err
	}

	if p.cfg.Retention > 0 {
		deleted, err := p.store.DeleteOldItems(ctx, p.cfg.Retention)
		if err != nil {
			lgr.Printf("[WARN] retention cleanup failed: %v", err)
		} else if deleted > 0 {
			lgr.Printf("[INFO] retention cleanup removed %d items", deleted)
		}
	}

	lgr.Printf("[INFO] pipeline run stored %d items in %v", len(scored), time.Since(started).Round(time.Millisecond))
	return nil
}

// enrichAll replaces thin summaries concurrently, failures keep the feed summary
func (p *Pipeline) enrichAll(ctx context.Context, items []domain.Item) {
	if p.enricher == nil {
		return
	}

	sem := make(chan struct{}, p.cfg.MaxWorkers)
	var wg sync.WaitGroup

	for i := range items {
		wg.Add(1)
		go func(item *domain.Item) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			if err := p.enricher.Enrich(ctx, item, p.cfg.MinSummaryRunes); err != nil {
				lgr.Printf("[WARN] content extraction failed for %s: %v", item.URL, err)
			}
		}(&items[i])
	}

	wg.Wait()
}
