package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

// Generator creates RSS feeds from scored items
type Generator struct {
	baseURL string
}

// NewGenerator creates a feed generator; baseURL is the public address of
// this service
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateRSS creates an RSS 2.0 feed for one label bucket
func (g *Generator) GenerateRSS(items []domain.ScoredItem, label domain.Label) (string, error) {
	selfLink := fmt.Sprintf("%s/rss/%s", g.baseURL, label)

	rssItems := make([]*rssItem, 0, len(items))
	for i := range items {
		rssItems = append(rssItems, g.convertItem(&items[i]))
	}

	feed := &rss{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &rssChannel{
			Title:         fmt.Sprintf("AI News - %s", label),
			Link:          g.baseURL + "/",
			Description:   fmt.Sprintf("AI news items labeled %s", label),
			AtomLink:      &atomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

func (g *Generator) convertItem(item *domain.ScoredItem) *rssItem {
	desc := fmt.Sprintf("Score: %d/100 (%s)", item.Score, item.Source)
	if len(item.KeyPoints) > 0 {
		points := make([]string, 0, len(item.KeyPoints))
		for _, kp := range item.KeyPoints {
			points = append(points, kp.Text)
		}
		desc += "\n" + strings.Join(points, "\n")
	}
	if item.SummaryHTML != "" {
		desc += "\n\n" + item.SummaryHTML
	} else if item.Summary != "" {
		desc += "\n\n" + item.Summary
	}

	return &rssItem{
		Title:       fmt.Sprintf("[%d] %s", item.Score, item.Title),
		Link:        item.URL,
		GUID:        item.ID,
		Description: desc,
		PubDate:     item.PublishedAt,
		Categories:  item.Tags,
	}
}

type rss struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	AtomLink      *atomLink  `xml:"atom:link"`
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Categories  []string `xml:"category,omitempty"`
}
