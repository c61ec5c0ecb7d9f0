package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

func TestLabelFor(t *testing.T) {
	tests := []struct {
		score int
		want  domain.Label
	}{
		{100, domain.LabelMustRead},
		{80, domain.LabelMustRead},
		{79, domain.LabelRecommended},
		{60, domain.LabelRecommended},
		{59, domain.LabelConsider},
		{40, domain.LabelConsider},
		{39, domain.LabelSkip},
		{0, domain.LabelSkip},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelFor(tt.score), "score %d", tt.score)
	}
}

func scoredWith(scores ...int) []domain.ScoredItem {
	items := make([]domain.ScoredItem, len(scores))
	for i, s := range scores {
		items[i] = domain.ScoredItem{
			Item:           domain.Item{ID: string(rune('a' + i))},
			Classification: domain.Classification{Score: s},
		}
	}
	return items
}

func TestApply_NaturalLabels(t *testing.T) {
	items := scoredWith(85, 65, 45, 20)
	Apply(items)

	assert.Equal(t, domain.LabelMustRead, items[0].Label)
	assert.Equal(t, domain.LabelRecommended, items[1].Label)
	assert.Equal(t, domain.LabelConsider, items[2].Label)
	assert.Equal(t, domain.LabelSkip, items[3].Label)
	for _, it := range items {
		assert.Empty(t, it.LabelReason, "natural labels carry no reason")
	}
}

func TestApply_PromotesTopWhenNoMustRead(t *testing.T) {
	// all composites in the consider band: top gets must_read, next
	// distinct one gets recommended, rest stay consider
	items := scoredWith(55, 48, 59, 41, 44)
	Apply(items)

	var musts, recos, considers int
	for _, it := range items {
		switch it.Label {
		case domain.LabelMustRead:
			musts++
			assert.Equal(t, 59, it.Score, "highest composite promoted")
			assert.Equal(t, ReasonPromotedMustRead, it.LabelReason)
		case domain.LabelRecommended:
			recos++
			assert.Equal(t, 55, it.Score, "next distinct item promoted")
			assert.Equal(t, ReasonPromotedRecommended, it.LabelReason)
		case domain.LabelConsider:
			considers++
			assert.Empty(t, it.LabelReason)
		}
	}
	assert.Equal(t, 1, musts)
	assert.Equal(t, 1, recos)
	assert.Equal(t, 3, considers)
}

func TestApply_PromotesRecommendedOnly(t *testing.T) {
	items := scoredWith(85, 50, 45)
	Apply(items)

	assert.Equal(t, domain.LabelMustRead, items[0].Label)
	assert.Empty(t, items[0].LabelReason, "earned naturally")
	assert.Equal(t, domain.LabelRecommended, items[1].Label)
	assert.Equal(t, ReasonPromotedRecommended, items[1].LabelReason)
}

func TestApply_Idempotent(t *testing.T) {
	items := scoredWith(55, 48, 59)
	Apply(items)
	snapshot := make([]domain.ScoredItem, len(items))
	copy(snapshot, items)

	Apply(items)
	assert.Equal(t, snapshot, items, "re-running on compliant data is a no-op")
}

func TestApply_NeverDemotes(t *testing.T) {
	items := scoredWith(85, 82, 65)
	Apply(items)

	assert.Equal(t, domain.LabelMustRead, items[0].Label)
	assert.Equal(t, domain.LabelMustRead, items[1].Label)
	assert.Equal(t, domain.LabelRecommended, items[2].Label)
}

func TestApply_EmptySet(t *testing.T) {
	assert.NotPanics(t, func() { Apply(nil) })
}

func TestApply_CoverageProperty(t *testing.T) {
	// any non-empty set of two or more ends with both top labels present
	sets := [][]int{
		{10, 10},
		{0, 0, 0},
		{90, 10},
		{70, 65, 61},
	}
	for _, scores := range sets {
		items := scoredWith(scores...)
		Apply(items)

		var hasMust, hasReco bool
		for _, it := range items {
			hasMust = hasMust || it.Label == domain.LabelMustRead
			hasReco = hasReco || it.Label == domain.LabelRecommended
		}
		require.True(t, hasMust, "scores %v", scores)
		require.True(t, hasReco, "scores %v", scores)
	}
}
