package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/menu-publisher/internal/cache"
	"github.com/jonathan/menu-publisher/internal/db"
	"github.com/jonathan/menu-publisher/internal/layout"
	"github.com/jonathan/menu-publisher/internal/rendering"
	"github.com/jonathan/menu-publisher/internal/schemas"
	"github.com/jonathan/menu-publisher/internal/server/ratelimit"
	"github.com/jonathan/menu-publisher/internal/types"
	"github.com/jonathan/menu-publisher/internal/validation"
)

// defaultTemplateID names the built-in template every registry carries.
const defaultTemplateID = "classic"

// GenerateRequest represents the request body for POST /layouts
type GenerateRequest struct {
	Menu            json.RawMessage `json:"menu"`
	TemplateID      string          `json:"template_id,omitempty"`
	TemplateVersion int             `json:"template_version,omitempty"`
	Context         string          `json:"context,omitempty"`
	Persist         bool            `json:"persist,omitempty"`
}

// GenerateResponse represents the response for POST /layouts
type GenerateResponse struct {
	LayoutID  string                `json:"layout_id,omitempty"`
	PageCount int                   `json:"page_count"`
	Document  *types.LayoutDocument `json:"document"`
}

// ValidateRequest represents the request body for POST /layouts/validate
type ValidateRequest struct {
	Document        json.RawMessage `json:"document"`
	TemplateID      string          `json:"template_id,omitempty"`
	TemplateVersion int             `json:"template_version,omitempty"`
}

// ValidateResponse represents the response for POST /layouts/validate
type ValidateResponse struct {
	Valid      bool              `json:"valid"`
	Violations []types.Violation `json:"violations"`
}

// ExportRequest represents the request body for POST /layouts/export
type ExportRequest struct {
	Menu            json.RawMessage `json:"menu"`
	TemplateID      string          `json:"template_id,omitempty"`
	TemplateVersion int             `json:"template_version,omitempty"`
	Context         string          `json:"context,omitempty"`
	Format          string          `json:"format"`
}

// exportContentTypes maps formats to response content types.
var exportContentTypes = map[string]string{
	"html": "text/html; charset=utf-8",
	"pdf":  "application/pdf",
	"png":  "image/png",
}

// exportLimiterNames maps formats to their rate limiter.
var exportLimiterNames = map[string]string{
	"html": ratelimit.NameExportHTML,
	"pdf":  ratelimit.NameExportPDF,
	"png":  ratelimit.NameExportPNG,
}

// parseMenu validates the raw menu JSON against the menu schema and
// unmarshals it.
func (s *Server) parseMenu(raw json.RawMessage) (*types.Menu, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("menu is required")
	}
	if schemaPath := schemas.ResolveSchemaPath(schemas.MenuSchemaFile); schemaPath != "" {
		if schema, err := os.ReadFile(schemaPath); err == nil {
			if err := schemas.ValidateBytes(schema, raw); err != nil {
				return nil, err
			}
		}
	}
	var menu types.Menu
	if err := json.Unmarshal(raw, &menu); err != nil {
		return nil, fmt.Errorf("invalid menu JSON: %v", err)
	}
	return &menu, nil
}

// resolveTemplate looks up the requested template, defaulting to the
// built-in template at its newest version.
func (s *Server) resolveTemplate(id string, version int) (*types.Template, error) {
	if id == "" {
		id = defaultTemplateID
	}
	return s.registry.Get(id, version)
}

// parseContext maps the request context string to an OutputContext.
func parseContext(value string) (types.OutputContext, error) {
	switch value {
	case "":
		return types.ContextDesktop, nil
	case "mobile", "tablet", "desktop", "print":
		return types.OutputContext(value), nil
	default:
		return "", fmt.Errorf("unknown context %q", value)
	}
}

// handleGenerateLayout generates a layout document for a menu
func (s *Server) handleGenerateLayout(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	menu, err := s.parseMenu(req.Menu)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	tpl, err := s.resolveTemplate(req.TemplateID, req.TemplateVersion)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	outputContext, err := parseContext(req.Context)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := s.generate(r, menu, req.Menu, tpl, outputContext)
	if err != nil {
		s.layoutErrorResponse(w, err)
		return
	}

	resp := GenerateResponse{PageCount: len(doc.Pages), Document: doc}

	if req.Persist && s.db != nil {
		docJSON, _ := json.Marshal(doc)
		layoutID, err := s.persistLayout(r, menu, req.Menu, tpl, outputContext, docJSON, len(doc.Pages))
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "failed to persist layout: "+err.Error())
			return
		}
		resp.LayoutID = layoutID.String()
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// generate produces a layout document, serving a cached copy when the
// same inputs were seen before.
func (s *Server) generate(r *http.Request, menu *types.Menu, menuJSON json.RawMessage, tpl *types.Template, outputContext types.OutputContext) (*types.LayoutDocument, error) {
	key := cache.LayoutKey(cache.Hash(menuJSON), tpl.ID, tpl.Version, string(outputContext))
	if cached, hit, err := s.store.Get(r.Context(), key); err == nil && hit {
		var doc types.LayoutDocument
		if err := json.Unmarshal(cached, &doc); err == nil {
			return &doc, nil
		}
	}

	doc, err := layout.Generate(menu, tpl, outputContext)
	if err != nil {
		return nil, err
	}
	if docJSON, err := json.Marshal(doc); err == nil {
		_ = s.store.Set(r.Context(), key, docJSON, 0)
	}
	return doc, nil
}

// persistLayout stores the menu and completed layout document.
func (s *Server) persistLayout(r *http.Request, menu *types.Menu, menuJSON json.RawMessage, tpl *types.Template, outputContext types.OutputContext, docJSON []byte, pageCount int) (uuid.UUID, error) {
	ctx := r.Context()
	if err := s.db.SaveMenu(ctx, menu.ID, menu.Name, cache.Hash(menuJSON), menuJSON); err != nil {
		return uuid.Nil, err
	}
	layoutID, err := s.db.CreateLayout(ctx, menu.ID, tpl.ID, tpl.Version, string(outputContext))
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.db.CompleteLayout(ctx, layoutID, docJSON, pageCount); err != nil {
		return uuid.Nil, err
	}
	return layoutID, nil
}

// layoutErrorResponse maps generation errors to HTTP statuses.
func (s *Server) layoutErrorResponse(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *layout.ConfigError:
		s.errorResponse(w, http.StatusUnprocessableEntity, e.Error())
	case *layout.InvariantError:
		s.jsonResponse(w, http.StatusInternalServerError, map[string]any{
			"error":      "invariant_violation",
			"message":    e.Error(),
			"violations": e.Violations,
		})
	default:
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// handleValidateLayout audits a layout document against its template
func (s *Server) handleValidateLayout(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Document) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "document is required")
		return
	}

	var doc types.LayoutDocument
	if err := json.Unmarshal(req.Document, &doc); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid layout document: "+err.Error())
		return
	}

	templateID := req.TemplateID
	if templateID == "" {
		templateID = doc.TemplateID
	}
	templateVersion := req.TemplateVersion
	if templateVersion == 0 {
		templateVersion = doc.TemplateVersion
	}
	tpl, err := s.resolveTemplate(templateID, templateVersion)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	violations := validation.ValidateDocument(&doc, tpl)
	if violations == nil {
		violations = []types.Violation{}
	}
	s.jsonResponse(w, http.StatusOK, ValidateResponse{
		Valid:      len(violations) == 0,
		Violations: violations,
	})
}

// handleExportLayout generates a layout and returns it rendered in the
// requested format. Each format has its own rate limiter; the browser
// backed formats are the most expensive and get the tightest budgets.
func (s *Server) handleExportLayout(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	contentType, ok := exportContentTypes[req.Format]
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", req.Format))
		return
	}
	res, ok := s.consumeLimit(w, r, exportLimiterNames[req.Format])
	if !ok {
		return
	}
	s.setRateLimitHeaders(w, res)

	menu, err := s.parseMenu(req.Menu)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	tpl, err := s.resolveTemplate(req.TemplateID, req.TemplateVersion)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	outputContext, err := parseContext(req.Context)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := s.generate(r, menu, req.Menu, tpl, outputContext)
	if err != nil {
		s.layoutErrorResponse(w, err)
		return
	}

	html, err := rendering.RenderHTML(doc, menu, tpl, "")
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	var data []byte
	switch req.Format {
	case "html":
		data = []byte(html)
	case "pdf":
		data, err = rendering.ExportPDF(r.Context(), html, tpl.Page.Width, tpl.Page.Height, rendering.DefaultExportTimeout)
	case "png":
		data, err = rendering.ExportPNG(r.Context(), html, rendering.DefaultExportTimeout)
	}
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleGetLayout returns a stored layout record
func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusNotImplemented, "layout storage requires a database")
		return
	}
	layoutID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid layout id")
		return
	}

	rec, err := s.db.GetLayout(r.Context(), layoutID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		s.errorResponse(w, http.StatusNotFound, "layout not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleListLayouts lists stored layout records
func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusNotImplemented, "layout storage requires a database")
		return
	}

	filters := db.LayoutFilters{
		MenuID:     r.URL.Query().Get("menu_id"),
		TemplateID: r.URL.Query().Get("template_id"),
		Status:     r.URL.Query().Get("status"),
	}
	layouts, err := s.db.ListLayouts(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if layouts == nil {
		layouts = []db.LayoutRecord{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"layouts": layouts})
}

// handleDeleteLayout deletes a stored layout record
func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusNotImplemented, "layout storage requires a database")
		return
	}
	layoutID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid layout id")
		return
	}

	if err := s.db.DeleteLayout(r.Context(), layoutID); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
