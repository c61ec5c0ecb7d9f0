package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/awano27/new-ai-news-site/pkg/domain"
	"github.com/awano27/new-ai-news-site/pkg/view"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// statusHandler returns server status and the stored item count
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountItems(r.Context())
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"items":   count,
		"time":    time.Now().UTC(),
	})
}

// itemsHandler lists stored items, best composite score first
func (s *Server) itemsHandler(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		RenderError(w, r, fmt.Errorf("limit must be between 1 and %d", maxListLimit), http.StatusBadRequest)
		return
	}
	offset := intQuery(r, "offset", 0)
	if offset < 0 {
		RenderError(w, r, fmt.Errorf("offset must be non-negative"), http.StatusBadRequest)
		return
	}

	items, err := s.store.ListItems(r.Context(), limit, offset)
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusOK, map[string]interface{}{"items": items, "count": len(items)})
}

// itemHandler returns one item by ID
func (s *Server) itemHandler(w http.ResponseWriter, r *http.Request) {
	item, err := s.store.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		RenderError(w, r, err, http.StatusNotFound)
		return
	}
	RenderJSON(w, r, http.StatusOK, item)
}

// viewHandler builds the persona-aware grouped view over the stored items.
// Query parameters: persona, tier, min_score, q.
func (s *Server) viewHandler(w http.ResponseWriter, r *http.Request) {
	persona := domain.Persona(r.URL.Query().Get("persona"))
	if persona == "" {
		persona = domain.PersonaEngineer
	}
	if !persona.Valid() {
		RenderError(w, r, fmt.Errorf("unknown persona %q", persona), http.StatusBadRequest)
		return
	}

	filter := view.Filter{Query: r.URL.Query().Get("q")}
	filter.Tier = intQuery(r, "tier", 0)
	if filter.Tier < 0 || filter.Tier > 2 {
		RenderError(w, r, fmt.Errorf("tier must be 0, 1 or 2"), http.StatusBadRequest)
		return
	}
	if raw := r.URL.Query().Get("min_score"); raw != "" {
		minScore, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			RenderError(w, r, fmt.Errorf("invalid min_score %q", raw), http.StatusBadRequest)
			return
		}
		filter.MinScore = minScore
	}

	items, err := s.store.ListItems(r.Context(), maxListLimit, 0)
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	groups, stats := view.Build(items, persona, filter)
	RenderJSON(w, r, http.StatusOK, map[string]interface{}{
		"persona": persona,
		"groups":  groups,
		"stats":   stats,
	})
}

// rssHandler serves the RSS rendition of one label bucket
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	label := domain.Label(r.PathValue("label"))
	valid := false
	for _, l := range domain.Labels {
		if label == l {
			valid = true
			break
		}
	}
	if !valid {
		RenderError(w, r, fmt.Errorf("unknown label %q", label), http.StatusNotFound)
		return
	}

	items, err := s.store.ListItemsByLabel(r.Context(), label, 50)
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	rss, err := s.generator.GenerateRSS(items, label)
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
	}
}

func intQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}
