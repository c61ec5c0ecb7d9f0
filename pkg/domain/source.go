package domain

// source types
const (
	SourceTypeRSS = "rss"
	SourceTypeX   = "x" // short-form social posts, tagged as micro-posts
)

// Source is a configured upstream feed
type Source struct {
	Name string
	URL  string
	Type string // rss (default) or x
}
