package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

func TestGenerator_GenerateRSS(t *testing.T) {
	gen := NewGenerator("http://localhost:8080/")

	items := []domain.ScoredItem{
		{
			Item: domain.Item{
				ID:          "item-1",
				Title:       "New model released",
				Summary:     "A big improvement.",
				URL:         "http://example.com/article1",
				Source:      "Example Blog",
				PublishedAt: "2023-01-02T15:04:05Z",
				Tags:        []string{"rss_feed"},
			},
			Classification: domain.Classification{Score: 85, Label: domain.LabelMustRead},
			KeyPoints: []domain.KeyPoint{
				{Label: "performance", Text: "Throughput doubled on the standard suite."},
			},
		},
	}

	out, err := gen.GenerateRSS(items, domain.LabelMustRead)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<title>AI News - must_read</title>")
	assert.Contains(t, out, `href="http://localhost:8080/rss/must_read"`)
	assert.Contains(t, out, "<title>[85] New model released</title>")
	assert.Contains(t, out, "<link>http://example.com/article1</link>")
	assert.Contains(t, out, "<guid>item-1</guid>")
	assert.Contains(t, out, "Score: 85/100 (Example Blog)")
	assert.Contains(t, out, "Throughput doubled on the standard suite.")
	assert.Contains(t, out, "<category>rss_feed</category>")
	assert.Contains(t, out, "<pubDate>2023-01-02T15:04:05Z</pubDate>")
}

func TestGenerator_GenerateRSS_Empty(t *testing.T) {
	gen := NewGenerator("http://localhost:8080")

	out, err := gen.GenerateRSS(nil, domain.LabelConsider)
	require.NoError(t, err)
	assert.Contains(t, out, "<title>AI News - consider</title>")
	assert.NotContains(t, out, "<item>")
}
