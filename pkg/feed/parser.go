package feed

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

// Parser fetches RSS/Atom feeds and normalizes entries to domain items.
// Normalization resolves every optional field to one canonical shape:
// downstream components never see raw feed records.
type Parser struct {
	client    *http.Client
	userAgent string
}

// NewParser creates a feed parser with the given per-request timeout
func NewParser(timeout time.Duration, userAgent string) *Parser {
	if userAgent == "" {
		userAgent = "ainews/1.0"
	}
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Parse fetches a source and returns its normalized items. Entries without
// a title or link are skipped; a malformed entry never fails the batch.
func (p *Parser) Parse(ctx context.Context, src domain.Source) ([]domain.Item, error) {
	body, err := p.fetch(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	parsed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]domain.Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if entry.Title == "" || entry.Link == "" {
			continue
		}
		items = append(items, p.normalize(src, entry))
	}
	return items, nil
}

// normalize converts one feed entry to the canonical item shape
func (p *Parser) normalize(src domain.Source, entry *gofeed.Item) domain.Item {
	summary := entry.Description
	if summary == "" {
		summary = entry.Content
	}

	tags := []string{"rss_feed"}
	source := src.Name
	if src.Type == domain.SourceTypeX {
		tags = []string{domain.TagMicroPost}
		if !strings.HasPrefix(source, "X/") {
			source = "X/" + source
		}
	}

	item := domain.Item{
		ID:          entryID(src.Name, entry),
		Title:       strings.TrimSpace(entry.Title),
		Summary:     HTMLToText(summary),
		SummaryHTML: SanitizeHTML(summary),
		URL:         entry.Link,
		Source:      source,
		Tags:        tags,
	}

	// published time normalizes to RFC3339 UTC; absent dates stay empty
	// and score as maximally stale downstream
	if entry.PublishedParsed != nil {
		item.PublishedAt = entry.PublishedParsed.UTC().Format(time.RFC3339)
	} else if entry.UpdatedParsed != nil {
		item.PublishedAt = entry.UpdatedParsed.UTC().Format(time.RFC3339)
	}

	return item
}

// entryID prefers the feed GUID, falling back to a hash of source and link
func entryID(sourceName string, entry *gofeed.Item) string {
	if entry.GUID != "" {
		return entry.GUID
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(sourceName + entry.Link))
	return fmt.Sprintf("rss_%x", h.Sum32())
}

func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)
	addBrowserHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
