package classify

import (
	"sort"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

// composite score thresholds for label assignment
const (
	mustReadThreshold    = 80
	recommendedThreshold = 60
	considerThreshold    = 40
)

// labelReason markers set when the coverage guarantee changed a label
const (
	ReasonPromotedMustRead    = "fallback_promoted_top_to_must_read"
	ReasonPromotedRecommended = "fallback_promoted_second_to_recommended"
)

// LabelFor maps a composite score to its recommendation label. Total
// function: every score maps to exactly one label.
func LabelFor(score int) domain.Label {
	switch {
	case score >= mustReadThreshold:
		return domain.LabelMustRead
	case score >= recommendedThreshold:
		return domain.LabelRecommended
	case score >= considerThreshold:
		return domain.LabelConsider
	default:
		return domain.LabelSkip
	}
}

// Apply assigns threshold labels to every item in place, then enforces the
// coverage guarantee across the whole set: when no item earned must_read the
// single highest-composite item is promoted, and independently the highest
// non-must_read item is promoted to recommended when that label is empty.
// Promotions carry a labelReason marker; natural labels never do. Re-running
// on compliant data is a no-op and labels are never demoted.
func Apply(items []domain.ScoredItem) {
	for i := range items {
		if items[i].Label == "" {
			items[i].Label = LabelFor(items[i].Score)
		}
	}
	ensureCoverage(items)
}

func ensureCoverage(items []domain.ScoredItem) {
	if len(items) == 0 {
		return
	}

	hasMust, hasReco := false, false
	for i := range items {
		switch items[i].Label {
		case domain.LabelMustRead:
			hasMust = true
		case domain.LabelRecommended:
			hasReco = true
		}
	}
	if hasMust && hasReco {
		return
	}

	// rank by composite score without disturbing the input order
	ranked := make([]*domain.ScoredItem, len(items))
	for i := range items {
		ranked[i] = &items[i]
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if !hasMust {
		ranked[0].Label = domain.LabelMustRead
		ranked[0].LabelReason = ReasonPromotedMustRead
	}
	if !hasReco {
		for _, it := range ranked {
			if it.Label != domain.LabelMustRead {
				it.Label = domain.LabelRecommended
				it.LabelReason = ReasonPromotedRecommended
				break
			}
		}
	}
}
