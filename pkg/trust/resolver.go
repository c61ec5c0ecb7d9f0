package trust

import (
	"net/url"
	"strings"
)

// DefaultWeight is used when the table has no default entry
const DefaultWeight = 0.5

// tier1Threshold splits high-trust publishers from general ones
const tier1Threshold = 0.8

// twoLabelSuffixes are public-suffix exceptions where the registrable domain
// keeps three labels instead of two (news.bbc.co.uk -> bbc.co.uk)
var twoLabelSuffixes = map[string]struct{}{
	"co.uk": {}, "ac.uk": {}, "gov.uk": {}, "org.uk": {},
	"co.jp": {}, "ne.jp": {}, "or.jp": {}, "ac.jp": {}, "go.jp": {},
	"co.kr": {}, "com.au": {}, "co.nz": {}, "co.in": {},
	"com.br": {}, "com.cn": {},
}

// Result is the resolved publisher identity for a URL
type Result struct {
	Domain string  // registrable domain, empty when the URL is unusable
	Weight float64 // trust weight in [0,1]
	Tier   int     // 1 when Weight >= 0.8, otherwise 2
}

// Resolver maps URLs to publisher domains and trust weights. The weight
// table is read-only after construction and safe for concurrent use.
type Resolver struct {
	weights map[string]float64
	deflt   float64
}

// NewResolver creates a resolver over a domain->weight table. A "default"
// entry supplies the fallback weight; without one the fallback is 0.5.
func NewResolver(weights map[string]float64) *Resolver {
	r := &Resolver{weights: make(map[string]float64, len(weights)), deflt: DefaultWeight}
	for domain, w := range weights {
		if domain == "default" {
			r.deflt = w
			continue
		}
		r.weights[strings.ToLower(domain)] = w
	}
	return r
}

// Resolve extracts the registrable domain from a URL and looks up its trust
// weight. It never fails: malformed input yields an empty domain with the
// default weight.
func (r *Resolver) Resolve(rawURL string) Result {
	domain := RegistrableDomain(rawURL)
	weight := r.deflt
	if domain != "" {
		if w, ok := r.weights[domain]; ok {
			weight = w
		}
	}
	return Result{Domain: domain, Weight: weight, Tier: Tier(weight)}
}

// Tier maps a trust weight to the coarse trust bucket
func Tier(weight float64) int {
	if weight >= tier1Threshold {
		return 1
	}
	return 2
}

// RegistrableDomain collapses a URL's host to its registrable domain:
// lowercase, www-style prefix stripped, last two labels kept (three for
// known two-label public suffixes). Returns "" when the URL has no usable
// host.
func RegistrableDomain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}

	suffix := strings.Join(labels[len(labels)-2:], ".")
	if _, ok := twoLabelSuffixes[suffix]; ok {
		return strings.Join(labels[len(labels)-3:], ".")
	}
	return suffix
}
