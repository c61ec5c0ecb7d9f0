package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/markusmobius/go-trafilatura"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; ainews/1.0)"

// Extractor pulls readable article text out of web pages with trafilatura.
// Feed summaries are often truncated; the full text gives scoring and
// key-point extraction something to work with.
type Extractor struct {
	client    *http.Client
	userAgent string
}

// NewExtractor creates a content extractor with the given request timeout
func NewExtractor(timeout time.Duration, userAgent string) *Extractor {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Extract retrieves the page and returns its main text content
func (e *Extractor) Extract(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid url %q", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ja;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, pageURL)
	}

	result, err := trafilatura.Extract(resp.Body, trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     parsed,
	})
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", pageURL, err)
	}

	text := ""
	if result != nil {
		text = strings.TrimSpace(result.ContentText)
	}
	if text == "" {
		return "", fmt.Errorf("no text content extracted from %s", pageURL)
	}
	return text, nil
}

// Enrich replaces a thin feed summary with extracted article text. Summaries
// already at or above minRunes are left alone.
func (e *Extractor) Enrich(ctx context.Context, item *domain.Item, minRunes int) error {
	if utf8.RuneCountInString(item.Summary) >= minRunes {
		return nil
	}
	text, err := e.Extract(ctx, item.URL)
	if err != nil {
		return err
	}
	item.Summary = text
	return nil
}
