package keypoints

import (
	"regexp"
	"sort"
	"strings"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

// minimum sentence length in runes; shorter fragments are headline debris,
// not substantive sentences
const minSentenceRunes = 20

// prefix length used to deduplicate near-identical picks
const dedupePrefixRunes = 20

// category names form a fixed vocabulary shared by both personas; only the
// walk order is persona-specific
const (
	CategoryAnnouncement = "announcement"
	CategoryPerformance  = "performance"
	CategoryAdoption     = "adoption"
	CategoryImpact       = "impact"
	CategoryResearch     = "research"
	CategoryCaution      = "caution"
)

var categoryPatterns = map[string]*regexp.Regexp{
	CategoryAnnouncement: regexp.MustCompile(`(?i)release|launch|announce|unveil|introduc|発表|リリース|公開|提供開始`),
	CategoryPerformance:  regexp.MustCompile(`(?i)benchmark|sota|outperform|faster|accuracy|improve|efficien|性能|高速|精度|ベンチマーク`),
	CategoryAdoption:     regexp.MustCompile(`(?i)how.to|tutorial|adopt|deploy|integrat|case.stud|導入|活用|採用|事例|チュートリアル|使い方`),
	CategoryImpact:       regexp.MustCompile(`(?i)business|market|revenue|cost|roi|productivity|影響|市場|収益|コスト|ビジネス`),
	CategoryResearch:     regexp.MustCompile(`(?i)research|paper|experiment|method|arxiv|研究|論文|実験|手法`),
	CategoryCaution:      regexp.MustCompile(`(?i)limitation|risk|concern|caution|warn|注意|課題|リスク|懸念`),
}

// categoryPriority is the persona-specific walk order over the shared
// category vocabulary
var categoryPriority = map[domain.Persona][]string{
	domain.PersonaEngineer: {
		CategoryPerformance, CategoryResearch, CategoryAdoption,
		CategoryAnnouncement, CategoryCaution, CategoryImpact,
	},
	domain.PersonaBusiness: {
		CategoryImpact, CategoryAnnouncement, CategoryAdoption,
		CategoryPerformance, CategoryCaution, CategoryResearch,
	},
}

// extra-signal bonuses applied on top of a category pattern hit
var (
	numericPattern  = regexp.MustCompile(`\d+(\.\d+)?\s*(%|x|倍|billion|million|ms|gb)?`)
	linkPattern     = regexp.MustCompile(`(?i)https?://|github\.com`)
	codePattern     = regexp.MustCompile(`(?i)code|tutorial|implementation|sdk|api|コード|実装`)
	businessPattern = regexp.MustCompile(`(?i)roi|revenue|cost|market|収益|コスト|市場`)
)

// genericKeywords drive the keyword-density ranking of the fallback picks
var genericKeywords = []string{
	"ai", "model", "llm", "agent", "benchmark", "research", "data",
	"performance", "open source", "モデル", "生成ai", "機械学習",
}

// sentence terminators: full-width and half-width
var sentenceSplitter = regexp.MustCompile(`[。．！？!?.]+\s*|\n+`)

// Extract derives up to n labeled highlight sentences from the text.
// Categories are walked in the persona's priority order; each category
// consumes its best-scoring unused sentence. When fewer than n categories
// match, remaining slots are backfilled with a generic keyword-density
// ranking, deduplicated by short prefix. Deterministic and side-effect free.
func Extract(text string, n int, persona domain.Persona) []domain.KeyPoint {
	if n <= 0 || strings.TrimSpace(text) == "" {
		return nil
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	order, ok := categoryPriority[persona]
	if !ok {
		order = categoryPriority[domain.PersonaEngineer]
	}

	used := make([]bool, len(sentences))
	points := make([]domain.KeyPoint, 0, n)

	for _, category := range order {
		if len(points) >= n {
			break
		}
		pattern := categoryPatterns[category]

		best, bestScore := -1, 0.0
		for i, sentence := range sentences {
			if used[i] || !pattern.MatchString(sentence) {
				continue
			}
			if score := sentenceScore(sentence); best < 0 || score > bestScore {
				best, bestScore = i, score
			}
		}
		if best >= 0 {
			used[best] = true
			points = append(points, domain.KeyPoint{Label: category, Text: sentences[best]})
		}
	}

	if len(points) < n {
		points = backfill(points, sentences, used, n)
	}
	return points
}

// SplitSentences breaks text on dual-script sentence boundaries and drops
// fragments too short to be substantive sentences.
func SplitSentences(text string) []string {
	parts := sentenceSplitter.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		s := strings.TrimSpace(part)
		if len([]rune(s)) < minSentenceRunes {
			continue
		}
		sentences = append(sentences, s)
	}
	return sentences
}

// sentenceScore ranks candidate sentences within one category: a fixed hit
// bonus plus extra-signal bonuses and a mild length preference
func sentenceScore(sentence string) float64 {
	score := 1.0
	if numericPattern.MatchString(sentence) {
		score += 0.3
	}
	if linkPattern.MatchString(sentence) {
		score += 0.2
	}
	if codePattern.MatchString(sentence) {
		score += 0.2
	}
	if businessPattern.MatchString(sentence) {
		score += 0.2
	}
	return score + float64(len([]rune(sentence)))/200
}

// backfill fills remaining slots with the highest keyword-density unused
// sentences, unlabeled, skipping near-duplicates of already picked text
func backfill(points []domain.KeyPoint, sentences []string, used []bool, n int) []domain.KeyPoint {
	type candidate struct {
		index   int
		density float64
	}

	candidates := make([]candidate, 0, len(sentences))
	for i, sentence := range sentences {
		if used[i] {
			continue
		}
		lower := strings.ToLower(sentence)
		hits := 0
		for _, kw := range genericKeywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		candidates = append(candidates, candidate{
			index:   i,
			density: float64(hits) / float64(len([]rune(sentence))),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].density > candidates[j].density })

	for _, c := range candidates {
		if len(points) >= n {
			break
		}
		if isNearDuplicate(sentences[c.index], points) {
			continue
		}
		points = append(points, domain.KeyPoint{Text: sentences[c.index]})
	}
	return points
}

func isNearDuplicate(sentence string, points []domain.KeyPoint) bool {
	prefix := runePrefix(sentence, dedupePrefixRunes)
	for _, p := range points {
		if runePrefix(p.Text, dedupePrefixRunes) == prefix {
			return true
		}
	}
	return false
}

func runePrefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
