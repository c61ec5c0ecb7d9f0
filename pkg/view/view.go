package view

import (
	"sort"
	"strings"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

// GroupTrending holds short-form micro-posts; the remaining groups are
// named after the recommendation labels
const GroupTrending = "trending"

// per-group display caps; items beyond the cap are flagged extra, not
// dropped
var displayCaps = map[string]int{
	string(domain.LabelMustRead):    8,
	string(domain.LabelRecommended): 8,
	string(domain.LabelConsider):    10,
	string(domain.LabelSkip):        5,
	GroupTrending:                   10,
}

// Filter is the predicate applied before grouping. Zero values mean "no
// constraint" for their clause.
type Filter struct {
	Tier     int     // 0 all, 1 or 2 exact tier
	MinScore float64 // minimum active-persona total score
	Query    string  // case-insensitive substring over title, summary, source
}

// Entry is one rendered item with its display flags
type Entry struct {
	domain.ScoredItem
	Extra bool `json:"extra"` // beyond the group's display cap, hidden by default
}

// Group is a named render bucket, sorted descending by the active persona's
// total score
type Group struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"items"`
}

// Stats aggregates over the filtered set
type Stats struct {
	Count     int     `json:"count"`
	MeanScore float64 `json:"mean_score"` // mean active-persona total score
	Tier1     int     `json:"tier1_count"`
}

// Build produces the render-ready grouped view. It is a pure function of
// (items, persona, filter) and holds no state between calls; the caller
// re-invokes it on every persona switch or filter change.
func Build(items []domain.ScoredItem, persona domain.Persona, filter Filter) ([]Group, Stats) {
	if !persona.Valid() {
		persona = domain.PersonaEngineer
	}

	filtered := make([]domain.ScoredItem, 0, len(items))
	for _, it := range items {
		if matches(&it, persona, filter) {
			filtered = append(filtered, it)
		}
	}

	stats := aggregate(filtered, persona)

	// micro-posts render in their own trending bucket, everything else
	// buckets by label; labels are shared across personas but the order
	// within a bucket follows the active persona's score
	byGroup := make(map[string][]domain.ScoredItem)
	for _, it := range filtered {
		name := string(it.Label)
		if it.IsMicroPost() {
			name = GroupTrending
		}
		byGroup[name] = append(byGroup[name], it)
	}

	names := make([]string, 0, len(domain.Labels)+1)
	for _, label := range domain.Labels {
		names = append(names, string(label))
	}
	names = append(names, GroupTrending)

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		members := byGroup[name]
		if len(members) == 0 {
			continue
		}
		// stable sort keeps input order on equal scores, so identical
		// inputs always render identically
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Evaluation(persona).TotalScore > members[j].Evaluation(persona).TotalScore
		})

		limit := displayCaps[name]
		entries := make([]Entry, len(members))
		for i, m := range members {
			entries[i] = Entry{ScoredItem: m, Extra: limit > 0 && i >= limit}
		}
		groups = append(groups, Group{Name: name, Entries: entries})
	}

	return groups, stats
}

func matches(it *domain.ScoredItem, persona domain.Persona, f Filter) bool {
	if f.Tier != 0 && it.SourceTier != f.Tier {
		return false
	}
	if it.Evaluation(persona).TotalScore < f.MinScore {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		haystack := strings.ToLower(it.Title + " " + it.Summary + " " + it.Source)
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

func aggregate(items []domain.ScoredItem, persona domain.Persona) Stats {
	stats := Stats{Count: len(items)}
	if len(items) == 0 {
		return stats
	}
	var sum float64
	for _, it := range items {
		sum += it.Evaluation(persona).TotalScore
		if it.SourceTier == 1 {
			stats.Tier1++
		}
	}
	stats.MeanScore = sum / float64(len(items))
	return stats
}
