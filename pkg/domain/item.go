package domain

import "strings"

// Persona is a named reader viewpoint with its own relevance and
// actionability heuristics
type Persona string

// supported personas
const (
	PersonaEngineer Persona = "engineer"
	PersonaBusiness Persona = "business"
)

// Personas lists all supported personas in a stable order
var Personas = []Persona{PersonaEngineer, PersonaBusiness}

// Valid reports whether the persona is one of the supported ones
func (p Persona) Valid() bool {
	return p == PersonaEngineer || p == PersonaBusiness
}

// Label is the ordinal recommendation bucket assigned by the classifier
type Label string

// recommendation labels, ordered from strongest to weakest
const (
	LabelMustRead    Label = "must_read"
	LabelRecommended Label = "recommended"
	LabelConsider    Label = "consider"
	LabelSkip        Label = "skip"
)

// Labels lists all recommendation labels in display order
var Labels = []Label{LabelMustRead, LabelRecommended, LabelConsider, LabelSkip}

// well-known item tags
const (
	TagPlaceholder = "placeholder" // synthesized item padding the set to the minimum count
	TagMicroPost   = "x_post"      // short-form social post, rendered in the trending bucket
)

// Item is a normalized news item produced by the collector. Collectors
// guarantee non-empty ID, Title and URL; every other field may be empty and
// is treated as unknown, not as an error.
type Item struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	SummaryHTML string   `json:"-"` // sanitized rich variant of Summary, feed output only
	URL         string   `json:"url"`
	Source      string   `json:"source"`
	PublishedAt string   `json:"publishedAt"` // ISO date-time or date-only, may be malformed
	Tags        []string `json:"tags"`
}

// HasTag reports whether the item carries the given tag
func (i *Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Breakdown holds the five per-persona scoring axes, each in [0,1]
type Breakdown struct {
	Quality       float64 `json:"quality"`
	Relevance     float64 `json:"relevance"`
	Temporal      float64 `json:"temporal"`
	Trust         float64 `json:"trust"`
	Actionability float64 `json:"actionability"`
}

// Mean returns the arithmetic mean of the five axes
func (b Breakdown) Mean() float64 {
	return (b.Quality + b.Relevance + b.Temporal + b.Trust + b.Actionability) / 5
}

// Evaluation is one persona's assessment of a single item. TotalScore is
// always the mean of the breakdown axes, recomputed on construction.
type Evaluation struct {
	TotalScore float64   `json:"total_score"`
	Breakdown  Breakdown `json:"breakdown"`
}

// NewEvaluation builds an evaluation from a breakdown, deriving the total
func NewEvaluation(b Breakdown) Evaluation {
	return Evaluation{TotalScore: b.Mean(), Breakdown: b}
}

// Classification carries the 0-100 composite score and the label derived
// from it. LabelReason is set only when the coverage guarantee changed the
// label after the natural threshold mapping.
type Classification struct {
	Score       int    `json:"score"`
	Label       Label  `json:"label"`
	LabelReason string `json:"labelReason,omitempty"`
}

// KeyPoint is one extracted highlight sentence. Label is a category from the
// extractor's fixed vocabulary, or empty for a generic fallback pick.
type KeyPoint struct {
	Label string `json:"label,omitempty"`
	Text  string `json:"text"`
}

// ScoredItem is the fully processed record: the immutable input item plus
// everything this core derives from it. Field names in the JSON form are a
// contract with the rendering collaborator.
type ScoredItem struct {
	Item
	Classification
	SourceTier  int                    `json:"source_tier"`
	TrustWeight float64                `json:"trust_weight"`
	Evaluations map[Persona]Evaluation `json:"evaluation"`
	KeyPoints   []KeyPoint             `json:"keyPoints,omitempty"`
}

// Evaluation returns the stored evaluation for a persona, zero value when
// the persona is unknown
func (s *ScoredItem) Evaluation(p Persona) Evaluation {
	return s.Evaluations[p]
}

// IsPlaceholder reports whether the item was synthesized by the coverage
// guarantor rather than collected
func (s *ScoredItem) IsPlaceholder() bool {
	return s.HasTag(TagPlaceholder)
}

// IsMicroPost reports whether the item is a short-form social post, detected
// by tag or by the source naming convention
func (s *ScoredItem) IsMicroPost() bool {
	return s.HasTag(TagMicroPost) || strings.HasPrefix(s.Source, "X/")
}
