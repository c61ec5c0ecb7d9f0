package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain domain", "https://openai.com/blog/post", "openai.com"},
		{"www stripped", "https://www.theverge.com/ai", "theverge.com"},
		{"subdomain collapsed", "https://research.google.com/pubs", "google.com"},
		{"deep subdomain", "https://a.b.c.example.org/x", "example.org"},
		{"uk two-label suffix", "https://news.bbc.co.uk/tech", "bbc.co.uk"},
		{"jp two-label suffix", "https://www.nikkei.co.jp/article", "nikkei.co.jp"},
		{"uppercase host", "https://WWW.OpenAI.COM/", "openai.com"},
		{"host only suffix depth", "https://co.uk/", "co.uk"},
		{"port ignored", "http://example.com:8080/path", "example.com"},
		{"no host", "not a url at all", ""},
		{"empty", "", ""},
		{"scheme only", "https://", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegistrableDomain(tt.url))
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(map[string]float64{
		"openai.com": 0.95,
		"Example.ORG": 0.7,
		"default":    0.4,
	})

	t.Run("known domain tier 1", func(t *testing.T) {
		res := r.Resolve("https://openai.com/blog")
		assert.Equal(t, "openai.com", res.Domain)
		assert.InDelta(t, 0.95, res.Weight, 1e-9)
		assert.Equal(t, 1, res.Tier)
	})

	t.Run("case insensitive table", func(t *testing.T) {
		res := r.Resolve("https://example.org/")
		assert.InDelta(t, 0.7, res.Weight, 1e-9)
		assert.Equal(t, 2, res.Tier)
	})

	t.Run("unknown domain falls back to default", func(t *testing.T) {
		res := r.Resolve("https://unknown.net/x")
		assert.Equal(t, "unknown.net", res.Domain)
		assert.InDelta(t, 0.4, res.Weight, 1e-9)
		assert.Equal(t, 2, res.Tier)
	})

	t.Run("malformed url never fails", func(t *testing.T) {
		res := r.Resolve(":::not-a-url")
		assert.Empty(t, res.Domain)
		assert.InDelta(t, 0.4, res.Weight, 1e-9)
		assert.Equal(t, 2, res.Tier)
	})
}

func TestResolver_NoDefaultEntry(t *testing.T) {
	r := NewResolver(map[string]float64{"openai.com": 0.95})
	res := r.Resolve("https://somewhere.io/")
	assert.InDelta(t, DefaultWeight, res.Weight, 1e-9)
	assert.Equal(t, 2, res.Tier)
}

func TestTier_Boundary(t *testing.T) {
	assert.Equal(t, 1, Tier(0.8))
	assert.Equal(t, 1, Tier(1.0))
	assert.Equal(t, 2, Tier(0.79))
	assert.Equal(t, 2, Tier(0))
}
