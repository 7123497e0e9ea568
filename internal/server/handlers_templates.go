package server

import (
	"net/http"
	"strconv"
)

// TemplateSummary is a lightweight view of a registered template.
type TemplateSummary struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
	Name    string `json:"name,omitempty"`
}

// handleListTemplates lists every registered template
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	all := s.registry.List()
	summaries := make([]TemplateSummary, 0, len(all))
	for _, tpl := range all {
		summaries = append(summaries, TemplateSummary{ID: tpl.ID, Version: tpl.Version, Name: tpl.Name})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": summaries})
}

// handleGetTemplate returns one template definition. The version query
// parameter selects a specific version; the newest is returned otherwise.
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	version := 0
	if raw := r.URL.Query().Get("version"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.errorResponse(w, http.StatusBadRequest, "invalid template version")
			return
		}
		version = parsed
	}

	tpl, err := s.registry.Get(id, version)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, tpl)
}
