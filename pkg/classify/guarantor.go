package classify

import (
	"fmt"
	"time"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

// MinItems is the floor the scored set is padded to
const MinItems = 20

// placeholder constants: mid-range composite, flat neutral breakdown
const (
	placeholderScore = 45
	placeholderAxis  = 0.45
)

// EnsureMinimum pads the scored set with clearly tagged placeholder items up
// to the floor. Placeholders carry the placeholder tag, a neutral consider
// label and a flat mid-range evaluation for both personas, so they are
// always distinguishable from real items downstream.
func EnsureMinimum(items []domain.ScoredItem, floor int, now time.Time) []domain.ScoredItem {
	if floor <= 0 {
		floor = MinItems
	}
	need := floor - len(items)
	for n := 0; n < need; n++ {
		items = append(items, newPlaceholder(n, now))
	}
	return items
}

func newPlaceholder(n int, now time.Time) domain.ScoredItem {
	axis := domain.Breakdown{
		Quality:       placeholderAxis,
		Relevance:     placeholderAxis,
		Temporal:      placeholderAxis,
		Trust:         placeholderAxis,
		Actionability: placeholderAxis,
	}
	evals := make(map[domain.Persona]domain.Evaluation, len(domain.Personas))
	for _, persona := range domain.Personas {
		evals[persona] = domain.NewEvaluation(axis)
	}

	return domain.ScoredItem{
		Item: domain.Item{
			ID:          fmt.Sprintf("placeholder_%d", n),
			Title:       fmt.Sprintf("Placeholder article %d", n+1),
			Summary:     "Synthesized to satisfy the minimum item count; not real content.",
			URL:         "https://example.com/",
			Source:      "placeholder",
			PublishedAt: now.UTC().Format(time.RFC3339),
			Tags:        []string{domain.TagPlaceholder},
		},
		Classification: domain.Classification{
			Score: placeholderScore,
			Label: domain.LabelConsider,
		},
		SourceTier:  2,
		TrustWeight: 0.5,
		Evaluations: evals,
	}
}
