package scoring

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/awano27/new-ai-news-site/pkg/domain"
	"github.com/awano27/new-ai-news-site/pkg/trust"
)

// quality axis blend weights per persona: quality is a derived blend of
// trust and relevance, not an independent signal
const (
	engineerQualityTrustWeight = 0.6
	businessQualityTrustWeight = 0.5
)

// Engine assembles per-persona evaluations and the composite classification
// score for normalized items. It holds only read-only tables and is safe for
// concurrent use.
type Engine struct {
	resolver *trust.Resolver
	tables   SignalTables
	now      func() time.Time
	workers  int
}

// Option customizes engine construction
type Option func(*Engine)

// WithNow overrides the clock, used by tests
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSignalTables swaps the keyword/pattern tables
func WithSignalTables(t SignalTables) Option {
	return func(e *Engine) { e.tables = t }
}

// WithWorkers sets the parallelism of ScoreAll
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine creates a scoring engine over a trust resolver
func NewEngine(resolver *trust.Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		tables:   DefaultSignalTables(),
		now:      time.Now,
		workers:  4,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score evaluates a single item for all personas. It never fails: malformed
// URLs and timestamps resolve to their defined fallbacks, so every item is
// always fully scorable.
func (e *Engine) Score(item domain.Item) domain.ScoredItem {
	now := e.now()
	resolved := e.resolver.Resolve(item.URL)
	freshness := Freshness(item.PublishedAt, now)
	text := item.Title + " " + item.Summary

	evals := make(map[domain.Persona]domain.Evaluation, len(domain.Personas))
	for _, persona := range domain.Personas {
		sig := e.tables.Extract(text, persona)

		blend := businessQualityTrustWeight
		if persona == domain.PersonaEngineer {
			blend = engineerQualityTrustWeight
		}
		quality := blend*resolved.Weight + (1-blend)*sig.Relevance

		evals[persona] = domain.NewEvaluation(domain.Breakdown{
			Quality:       quality,
			Relevance:     sig.Relevance,
			Temporal:      freshness,
			Trust:         resolved.Weight,
			Actionability: sig.Actionability,
		})
	}

	return domain.ScoredItem{
		Item: item,
		Classification: domain.Classification{
			Score: Composite(text, item.PublishedAt, resolved.Weight, now),
		},
		SourceTier:  resolved.Tier,
		TrustWeight: resolved.Weight,
		Evaluations: evals,
	}
}

// ScoreAll evaluates items in parallel. Scoring is independent per item, so
// the only synchronization is the final join; output order matches input
// order regardless of scheduling.
func (e *Engine) ScoreAll(ctx context.Context, items []domain.Item) []domain.ScoredItem {
	scored := make([]domain.ScoredItem, len(items))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, item := range items {
		g.Go(func() error {
			scored[i] = e.Score(item)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return scored
}
