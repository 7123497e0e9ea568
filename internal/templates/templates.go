// Package templates loads, validates and resolves versioned layout templates.
package templates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/menu-publisher/internal/schemas"
	"github.com/jonathan/menu-publisher/internal/types"
)

// LoadError represents a template file that could not be read or parsed.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template load error: %s (%s): %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("template load error: %s (%s)", e.Message, e.Path)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Load reads a template from a JSON file. The payload is checked against
// the template JSON Schema when the schema file can be located, then
// against the struct-level constraints; a template that fails either check
// is never registered.
func Load(path string) (*types.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read template file", Cause: err}
	}
	return Parse(data, path)
}

// Parse decodes and validates raw template JSON. origin is used in errors.
func Parse(data []byte, origin string) (*types.Template, error) {
	if schemaPath := schemas.ResolveSchemaPath(schemas.TemplateSchemaFile); schemaPath != "" {
		schemaData, err := os.ReadFile(schemaPath)
		if err == nil {
			if err := schemas.ValidateBytes(schemaData, data); err != nil {
				return nil, &LoadError{Path: origin, Message: "template failed schema validation", Cause: err}
			}
		}
	}
	var tpl types.Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, &LoadError{Path: origin, Message: "failed to parse template JSON", Cause: err}
	}
	applyDefaults(&tpl)
	if err := tpl.Validate(); err != nil {
		return nil, &LoadError{Path: origin, Message: "template failed validation", Cause: err}
	}
	return &tpl, nil
}

func applyDefaults(tpl *types.Template) {
	if tpl.Filler.Strategy == "" {
		tpl.Filler.Strategy = types.FillerNone
	}
}

// Registry holds immutable templates keyed by id and version. It is
// populated once at startup and read-only afterwards, so concurrent
// generation calls can share it without locking.
type Registry struct {
	templates map[string]*types.Template
}

// NewRegistry creates a registry seeded with the built-in default template.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]*types.Template)}
	r.Add(Default())
	return r
}

func key(id string, version int) string {
	return fmt.Sprintf("%s@%d", id, version)
}

// Add registers a template. A later Add with the same id and version
// replaces the earlier one.
func (r *Registry) Add(tpl *types.Template) {
	r.templates[key(tpl.ID, tpl.Version)] = tpl
}

// Get returns the template with the given id and version. Version 0 means
// the highest registered version of that id.
func (r *Registry) Get(id string, version int) (*types.Template, error) {
	if version > 0 {
		tpl, ok := r.templates[key(id, version)]
		if !ok {
			return nil, fmt.Errorf("template %s version %d is not registered", id, version)
		}
		return tpl, nil
	}
	var best *types.Template
	for _, tpl := range r.templates {
		if tpl.ID == id && (best == nil || tpl.Version > best.Version) {
			best = tpl
		}
	}
	if best == nil {
		return nil, fmt.Errorf("template %s is not registered", id)
	}
	return best, nil
}

// List returns all registered templates ordered by id then version.
func (r *Registry) List() []*types.Template {
	out := make([]*types.Template, 0, len(r.templates))
	for _, tpl := range r.templates {
		out = append(out, tpl)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].ID != out[b].ID {
			return out[a].ID < out[b].ID
		}
		return out[a].Version < out[b].Version
	})
	return out
}

// LoadDir loads every *.json template in a directory into the registry.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read template directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		tpl, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		r.Add(tpl)
	}
	return nil
}

// Default returns the built-in "classic" template: US letter, a four-column
// desktop grid, first-page-only title band and rectangle-merged fillers.
func Default() *types.Template {
	return &types.Template{
		ID:      "classic",
		Version: 1,
		Name:    "Classic",
		Page: types.PageSpec{
			Width:  612,
			Height: 792,
			Margins: types.Margins{
				Top: 36, Right: 36, Bottom: 36, Left: 36,
			},
		},
		Regions: []types.RegionSpec{
			{ID: "header", Kind: types.RegionHeader, Height: 54},
			{ID: "title", Kind: types.RegionTitle, Height: 48, FirstPageOnly: true},
			{ID: "body", Kind: types.RegionBody},
			{ID: "footer", Kind: types.RegionFooter, Height: 28},
		},
		Body: types.BodySpec{
			Columns: map[types.OutputContext]int{
				types.ContextMobile:  1,
				types.ContextTablet:  2,
				types.ContextDesktop: 4,
				types.ContextPrint:   3,
			},
			RowHeight: 70,
			GapX:      8,
			GapY:      8,
		},
		Spans: []types.SpanRule{
			{HasImage: ptr(true), Featured: ptr(true), ColSpan: 2, RowSpan: 2},
			{Featured: ptr(true), ColSpan: 2, RowSpan: 1},
			{HasImage: ptr(true), ColSpan: 1, RowSpan: 2},
		},
		Filler: types.FillerSpec{Strategy: types.FillerMergeRect, Style: "pattern"},
		Indicators: map[string]types.IndicatorRule{
			"vegan":              {Label: "Vegan", Symbol: "V"},
			"vegetarian":         {Label: "Vegetarian", Symbol: "VG"},
			"gluten-free":        {Label: "Gluten free", Symbol: "GF"},
			"allergen:nuts":      {Label: "Contains nuts", Symbol: "N"},
			"allergen:dairy":     {Label: "Contains dairy", Symbol: "D"},
			"allergen:shellfish": {Label: "Contains shellfish", Symbol: "S"},
			"spice:mild":         {Label: "Mild", Symbol: "🌶"},
			"spice:medium":       {Label: "Medium", Symbol: "🌶🌶"},
			"spice:hot":          {Label: "Hot", Symbol: "🌶🌶🌶"},
		},
	}
}

func ptr(b bool) *bool { return &b }
