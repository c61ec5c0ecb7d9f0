package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Test Feed</title>
	<link>http://example.com</link>
	<item>
		<title>  New model released  </title>
		<link>http://example.com/article1</link>
		<description><![CDATA[<p>A <b>big</b> improvement over the last one.</p>]]></description>
		<pubDate>Mon, 02 Jan 2023 15:04:05 +0000</pubDate>
		<guid>guid-1</guid>
	</item>
	<item>
		<title>No guid article</title>
		<link>http://example.com/article2</link>
		<description>plain description</description>
	</item>
	<item>
		<title></title>
		<link>http://example.com/untitled</link>
	</item>
</channel>
</rss>`

func serveRSS(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParser_Parse(t *testing.T) {
	srv := serveRSS(t, testRSS)
	p := NewParser(5*time.Second, "")

	items, err := p.Parse(context.Background(), domain.Source{Name: "Test Feed", URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, items, 2, "untitled entry skipped")

	first := items[0]
	assert.Equal(t, "guid-1", first.ID)
	assert.Equal(t, "New model released", first.Title, "title trimmed")
	assert.Equal(t, "A big improvement over the last one.", first.Summary, "markup stripped")
	assert.Contains(t, first.SummaryHTML, "<b>big</b>", "sanitized rich summary keeps formatting")
	assert.Equal(t, "2023-01-02T15:04:05Z", first.PublishedAt)
	assert.Equal(t, []string{"rss_feed"}, first.Tags)

	second := items[1]
	assert.NotEmpty(t, second.ID, "missing guid falls back to hash id")
	assert.NotEqual(t, first.ID, second.ID)
	assert.Empty(t, second.PublishedAt, "absent date stays empty")
}

func TestParser_Parse_XSource(t *testing.T) {
	srv := serveRSS(t, testRSS)
	p := NewParser(5*time.Second, "")

	items, err := p.Parse(context.Background(), domain.Source{
		Name: "somebody", URL: srv.URL, Type: domain.SourceTypeX,
	})
	require.NoError(t, err)
	require.NotEmpty(t, items)

	assert.Equal(t, "X/somebody", items[0].Source)
	assert.Equal(t, []string{domain.TagMicroPost}, items[0].Tags)
}

func TestParser_Parse_Errors(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		p := NewParser(5*time.Second, "")
		_, err := p.Parse(context.Background(), domain.Source{Name: "broken", URL: srv.URL})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 500")
	})

	t.Run("invalid xml", func(t *testing.T) {
		srv := serveRSS(t, "not xml at all")
		p := NewParser(5*time.Second, "")
		_, err := p.Parse(context.Background(), domain.Source{Name: "bad", URL: srv.URL})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed")
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(testRSS))
		}))
		defer srv.Close()

		p := NewParser(50*time.Millisecond, "")
		_, err := p.Parse(context.Background(), domain.Source{Name: "slow", URL: srv.URL})
		require.Error(t, err)
	})
}
