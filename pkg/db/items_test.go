package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

func sampleItem(id string, score int, label domain.Label) domain.ScoredItem {
	return domain.ScoredItem{
		Item: domain.Item{
			ID:          id,
			Title:       "Title " + id,
			Summary:     "Summary " + id,
			SummaryHTML: "<p>Summary " + id + "</p>",
			URL:         "http://example.com/" + id,
			Source:      "Example Blog",
			PublishedAt: "2023-01-02T15:04:05Z",
			Tags:        []string{"rss_feed"},
		},
		Classification: domain.Classification{Score: score, Label: label},
		SourceTier:     1,
		TrustWeight:    0.9,
		Evaluations: map[domain.Persona]domain.Evaluation{
			domain.PersonaEngineer: domain.NewEvaluation(domain.Breakdown{
				Quality: 0.8, Relevance: 0.7, Temporal: 0.9, Trust: 0.9, Actionability: 0.6,
			}),
		},
		KeyPoints: []domain.KeyPoint{{Label: "performance", Text: "Throughput doubled."}},
	}
}

func TestDB_SaveAndGetItem(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	orig := sampleItem("a1", 85, domain.LabelMustRead)
	require.NoError(t, database.SaveItems(ctx, []domain.ScoredItem{orig}))

	got, err := database.GetItem(ctx, "a1")
	require.NoError(t, err)

	assert.Equal(t, orig.Title, got.Title)
	assert.Equal(t, orig.SummaryHTML, got.SummaryHTML)
	assert.Equal(t, orig.Score, got.Score)
	assert.Equal(t, orig.Label, got.Label)
	assert.Equal(t, orig.Tags, got.Tags)
	assert.Equal(t, orig.KeyPoints, got.KeyPoints)
	require.Contains(t, got.Evaluations, domain.PersonaEngineer)
	assert.InDelta(t, orig.Evaluations[domain.PersonaEngineer].TotalScore,
		got.Evaluations[domain.PersonaEngineer].TotalScore, 1e-9)
}

func TestDB_SaveItems_Upsert(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	item := sampleItem("a1", 50, domain.LabelConsider)
	require.NoError(t, database.SaveItems(ctx, []domain.ScoredItem{item}))

	item.Score = 85
	item.Label = domain.LabelMustRead
	item.Title = "Updated title"
	require.NoError(t, database.SaveItems(ctx, []domain.ScoredItem{item}))

	count, err := database.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "same id overwrites, no duplicate")

	got, err := database.GetItem(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 85, got.Score)
	assert.Equal(t, domain.LabelMustRead, got.Label)
	assert.Equal(t, "Updated title", got.Title)
}

func TestDB_GetItem_NotFound(t *testing.T) {
	database := testDB(t)
	_, err := database.GetItem(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDB_ListItems(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	items := []domain.ScoredItem{
		sampleItem("low", 30, domain.LabelSkip),
		sampleItem("high", 90, domain.LabelMustRead),
		sampleItem("mid", 60, domain.LabelRecommended),
	}
	require.NoError(t, database.SaveItems(ctx, items))

	got, err := database.ListItems(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "high", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
	assert.Equal(t, "low", got[2].ID)

	t.Run("pagination", func(t *testing.T) {
		page, err := database.ListItems(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "mid", page[0].ID)
	})
}

func TestDB_ListItemsByLabel(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	require.NoError(t, database.SaveItems(ctx, []domain.ScoredItem{
		sampleItem("m1", 90, domain.LabelMustRead),
		sampleItem("m2", 82, domain.LabelMustRead),
		sampleItem("r1", 70, domain.LabelRecommended),
	}))

	got, err := database.ListItemsByLabel(ctx, domain.LabelMustRead, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)
}

func TestDB_SaveItems_Empty(t *testing.T) {
	database := testDB(t)
	require.NoError(t, database.SaveItems(context.Background(), nil))
}

func TestDB_SaveItems_LargeBatch(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	items := make([]domain.ScoredItem, 0, 50)
	for i := 0; i < 50; i++ {
		items = append(items, sampleItem(fmt.Sprintf("item-%02d", i), i, domain.LabelConsider))
	}
	require.NoError(t, database.SaveItems(ctx, items))

	count, err := database.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), count)
}

func TestDB_DeleteOldItems(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	require.NoError(t, database.SaveItems(ctx, []domain.ScoredItem{sampleItem("a1", 50, domain.LabelConsider)}))

	// nothing is old enough yet
	deleted, err := database.DeleteOldItems(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	// everything is older than a zero cutoff after backdating
	_, err = database.conn.ExecContext(ctx, `UPDATE scored_items SET created_at = '2000-01-01 00:00:00'`)
	require.NoError(t, err)

	deleted, err = database.DeleteOldItems(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err := database.CountItems(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
