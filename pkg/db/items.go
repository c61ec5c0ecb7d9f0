package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

// itemRow is the flat database representation of a scored item; slice and
// map fields are stored as JSON text columns
type itemRow struct {
	ID          string  `db:"id"`
	Title       string  `db:"title"`
	Summary     string  `db:"summary"`
	SummaryHTML string  `db:"summary_html"`
	URL         string  `db:"url"`
	Source      string  `db:"source"`
	PublishedAt string  `db:"published_at"`
	Tags        string  `db:"tags"`
	Score       int     `db:"score"`
	Label       string  `db:"label"`
	LabelReason string  `db:"label_reason"`
	SourceTier  int     `db:"source_tier"`
	TrustWeight float64 `db:"trust_weight"`
	Evaluations string  `db:"evaluations"`
	KeyPoints   string  `db:"key_points"`
}

const itemColumns = `id, title, summary, summary_html, url, source, published_at, tags,
	score, label, label_reason, source_tier, trust_weight, evaluations, key_points`

func toRow(item *domain.ScoredItem) (*itemRow, error) {
	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	evals, err := json.Marshal(item.Evaluations)
	if err != nil {
		return nil, fmt.Errorf("marshal evaluations: %w", err)
	}
	points, err := json.Marshal(item.KeyPoints)
	if err != nil {
		return nil, fmt.Errorf("marshal key points: %w", err)
	}
	return &itemRow{
		ID:          item.ID,
		Title:       item.Title,
		Summary:     item.Summary,
		SummaryHTML: item.SummaryHTML,
		URL:         item.URL,
		Source:      item.Source,
		PublishedAt: item.PublishedAt,
		Tags:        string(tags),
		Score:       item.Score,
		Label:       string(item.Label),
		LabelReason: item.LabelReason,
		SourceTier:  item.SourceTier,
		TrustWeight: item.TrustWeight,
		Evaluations: string(evals),
		KeyPoints:   string(points),
	}, nil
}

func (r *itemRow) toDomain() (domain.ScoredItem, error) {
	item := domain.ScoredItem{
		Item: domain.Item{
			ID:          r.ID,
			Title:       r.Title,
			Summary:     r.Summary,
			SummaryHTML: r.SummaryHTML,
			URL:         r.URL,
			Source:      r.Source,
			PublishedAt: r.PublishedAt,
		},
		Classification: domain.Classification{
			Score:       r.Score,
			Label:       domain.Label(r.Label),
			LabelReason: r.LabelReason,
		},
		SourceTier:  r.SourceTier,
		TrustWeight: r.TrustWeight,
	}
	if r.Tags != "" {
		if err := json.Unmarshal([]byte(r.Tags), &item.Tags); err != nil {
			return item, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if r.Evaluations != "" {
		if err := json.Unmarshal([]byte(r.Evaluations), &item.Evaluations); err != nil {
			return item, fmt.Errorf("unmarshal evaluations: %w", err)
		}
	}
	if r.KeyPoints != "" {
		if err := json.Unmarshal([]byte(r.KeyPoints), &item.KeyPoints); err != nil {
			return item, fmt.Errorf("unmarshal key points: %w", err)
		}
	}
	return item, nil
}

// SaveItems upserts a batch of scored items in a single transaction.
// Writes are retried with backoff when SQLite reports the database locked.
func (db *DB) SaveItems(ctx context.Context, items []domain.ScoredItem) error {
	if len(items) == 0 {
		return nil
	}

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		err := db.InTransaction(ctx, func(tx *sqlx.Tx) error {
			query := `
				INSERT INTO scored_items (` + itemColumns + `)
				VALUES (:id, :title, :summary, :summary_html, :url, :source, :published_at, :tags,
					:score, :label, :label_reason, :source_tier, :trust_weight, :evaluations, :key_points)
				ON CONFLICT(id) DO UPDATE SET
					title = excluded.title,
					summary = excluded.summary,
					summary_html = excluded.summary_html,
					url = excluded.url,
					source = excluded.source,
					published_at = excluded.published_at,
					tags = excluded.tags,
					score = excluded.score,
					label = excluded.label,
					label_reason = excluded.label_reason,
					source_tier = excluded.source_tier,
					trust_weight = excluded.trust_weight,
					evaluations = excluded.evaluations,
					key_points = excluded.key_points,
					updated_at = datetime('now')
			`
			for i := range items {
				row, err := toRow(&items[i])
				if err != nil {
					return err
				}
				if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
					return fmt.Errorf("insert item %s: %w", row.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			if isLockError(err) {
				return err // retrier will retry this
			}
			return &criticalError{err: fmt.Errorf("save items: %w", err)}
		}
		return nil
	})
}

// GetItem retrieves a scored item by ID
func (db *DB) GetItem(ctx context.Context, id string) (*domain.ScoredItem, error) {
	var row itemRow
	query := `SELECT ` + itemColumns + ` FROM scored_items WHERE id = ?`
	if err := db.conn.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("item %s not found", id)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	item, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems retrieves scored items ordered by composite score, best first
func (db *DB) ListItems(ctx context.Context, limit, offset int) ([]domain.ScoredItem, error) {
	var rows []itemRow
	query := `
		SELECT ` + itemColumns + ` FROM scored_items
		ORDER BY score DESC, published_at DESC
		LIMIT ? OFFSET ?
	`
	if err := db.conn.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return rowsToDomain(rows)
}

// ListItemsByLabel retrieves scored items with the given label, best first
func (db *DB) ListItemsByLabel(ctx context.Context, label domain.Label, limit int) ([]domain.ScoredItem, error) {
	var rows []itemRow
	query := `
		SELECT ` + itemColumns + ` FROM scored_items
		WHERE label = ?
		ORDER BY score DESC, published_at DESC
		LIMIT ?
	`
	if err := db.conn.SelectContext(ctx, &rows, query, string(label), limit); err != nil {
		return nil, fmt.Errorf("list items by label: %w", err)
	}
	return rowsToDomain(rows)
}

// CountItems returns the total number of stored items
func (db *DB) CountItems(ctx context.Context) (int64, error) {
	var count int64
	if err := db.conn.GetContext(ctx, &count, `SELECT COUNT(*) FROM scored_items`); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// DeleteOldItems deletes items first stored before the given age, returning
// the number of deleted rows
func (db *DB) DeleteOldItems(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format("2006-01-02 15:04:05")
	result, err := db.conn.ExecContext(ctx, `DELETE FROM scored_items WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old items: %w", err)
	}
	return result.RowsAffected()
}

func rowsToDomain(rows []itemRow) ([]domain.ScoredItem, error) {
	items := make([]domain.ScoredItem, 0, len(rows))
	for i := range rows {
		item, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
