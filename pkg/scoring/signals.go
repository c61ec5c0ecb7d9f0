package scoring

import (
	"regexp"
	"strings"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

// SignalTables holds the persona-specific vocabulary driving relevance and
// actionability detection. Swapping the tables is the only persona-specific
// customization point; the combination arithmetic is shared.
type SignalTables struct {
	EngineerKeywords []string       // additive hits, 0.08 each
	BusinessPattern  *regexp.Regexp // binary split: match 0.9, no match 0.4
	ActionPattern    *regexp.Regexp // how-to / implementation / case-study vocabulary
}

// DefaultSignalTables returns the built-in keyword and pattern tables,
// covering both English and Japanese vocabulary.
func DefaultSignalTables() SignalTables {
	return SignalTables{
		EngineerKeywords: []string{
			"implementation", "code", "github", "pytorch", "tensorflow",
			"optimization", "performance", "benchmark", "sota", "model",
			"architecture", "training", "inference", "gpu", "cuda",
			"transformer", "llm", "algorithm", "neural", "deep learning",
			"machine learning", "research", "paper", "dataset", "fine-tuning",
			"実装", "コード", "最適化", "性能", "モデル", "アーキテクチャ",
			"機械学習", "研究", "論文",
		},
		BusinessPattern: regexp.MustCompile(`(?i)roi|revenue|cost|profit|market|business|customer|growth|enterprise|investment|funding|startup|収益|コスト|利益|市場|ビジネス|顧客|成長|投資|資金調達`),
		ActionPattern:   regexp.MustCompile(`(?i)how.to|tutorial|guide|implementation|case.stud|hands.on|step.by.step|実装|チュートリアル|ガイド|方法|ケーススタディ|事例`),
	}
}

// Signals is the pair of text-derived axes for one persona
type Signals struct {
	Relevance     float64
	Actionability float64
}

// Extract detects topical relevance and actionability signals in the item
// text for the given persona. Matching is case-insensitive over the
// concatenated title+summary; both outputs are in [0,1].
func (t SignalTables) Extract(text string, persona domain.Persona) Signals {
	lower := strings.ToLower(text)

	var relevance float64
	switch persona {
	case domain.PersonaBusiness:
		// business relevance is a binary pattern split, not additive
		if t.BusinessPattern.MatchString(lower) {
			relevance = 0.9
		} else {
			relevance = 0.4
		}
	default: // engineer
		for _, kw := range t.EngineerKeywords {
			if strings.Contains(lower, kw) {
				relevance += 0.08
			}
		}
		relevance = clamp01(relevance)
	}

	var actionability float64
	actionable := t.ActionPattern.MatchString(lower)
	switch persona {
	case domain.PersonaBusiness:
		if actionable {
			actionability = 0.85
		} else {
			actionability = 0.4
		}
	default:
		if actionable {
			actionability = 0.9
		} else {
			actionability = 0.45 * relevance
		}
	}

	return Signals{Relevance: relevance, Actionability: actionability}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
