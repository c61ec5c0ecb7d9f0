package scoring

import (
	"regexp"
	"strings"
	"time"
)

// composite score component caps, summing to 100
const (
	compositeRecencyMax     = 40.0
	compositeTrustMax       = 25.0
	compositeKeywordMax     = 20.0
	compositeKeywordStep    = 4.0
	compositeReleaseBonus   = 8
	compositeBenchmarkBonus = 7
)

// compositeKeywords is persona-agnostic: the composite score selects a
// shared label, so it must not depend on the active persona
var compositeKeywords = []string{
	"ai", "model", "llm", "gpt", "agent", "open source", "benchmark",
	"research", "multimodal", "生成ai", "モデル", "機械学習",
}

var (
	releasePattern   = regexp.MustCompile(`(?i)release|launch|発表|リリース|公開`)
	benchmarkPattern = regexp.MustCompile(`(?i)benchmark|sota|state.of.the.art|ベンチマーク`)
)

// Composite computes the 0-100 classification score from recency,
// credibility, keyword relevance and impact. It is on a deliberately
// different scale and formula than the persona breakdowns; it exists only to
// drive thresholded labeling.
func Composite(text, publishedAt string, trustWeight float64, now time.Time) int {
	score := Freshness(publishedAt, now) * compositeRecencyMax
	score += trustWeight * compositeTrustMax

	lower := strings.ToLower(text)
	var kwScore float64
	for _, kw := range compositeKeywords {
		if strings.Contains(lower, kw) {
			kwScore += compositeKeywordStep
		}
	}
	if kwScore > compositeKeywordMax {
		kwScore = compositeKeywordMax
	}
	score += kwScore

	if releasePattern.MatchString(lower) {
		score += compositeReleaseBonus
	}
	if benchmarkPattern.MatchString(lower) {
		score += compositeBenchmarkBonus
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return int(score)
}
