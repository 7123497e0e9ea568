package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// OutputContext selects which column-count variant of a template's grid applies.
type OutputContext string

// Supported output contexts.
const (
	ContextMobile  OutputContext = "mobile"
	ContextTablet  OutputContext = "tablet"
	ContextDesktop OutputContext = "desktop"
	ContextPrint   OutputContext = "print"
)

// RegionKind identifies the role of a template region.
type RegionKind string

// Region kinds. Exactly one body region holds the item grid; all other
// regions have fixed heights.
const (
	RegionHeader RegionKind = "header"
	RegionTitle  RegionKind = "title"
	RegionBody   RegionKind = "body"
	RegionFooter RegionKind = "footer"
)

// PageSpec describes the physical page in points.
type PageSpec struct {
	Width   float64 `json:"width" validate:"gt=0"`
	Height  float64 `json:"height" validate:"gt=0"`
	Margins Margins `json:"margins"`
}

// Margins are the page margins in points.
type Margins struct {
	Top    float64 `json:"top" validate:"gte=0"`
	Right  float64 `json:"right" validate:"gte=0"`
	Bottom float64 `json:"bottom" validate:"gte=0"`
	Left   float64 `json:"left" validate:"gte=0"`
}

// RegionSpec describes one named zone of the page. Regions stack top to
// bottom in declaration order; the footer is pinned to the page bottom and
// the body absorbs all remaining height.
type RegionSpec struct {
	ID            string     `json:"id" validate:"required"`
	Kind          RegionKind `json:"kind" validate:"required,oneof=header title body footer"`
	Height        float64    `json:"height" validate:"gte=0"` // ignored for the body region
	FirstPageOnly bool       `json:"first_page_only,omitempty"`
}

// BodySpec describes the item grid inside the body region.
type BodySpec struct {
	// Columns maps each output context to its column count. A context with
	// no entry falls back to the "desktop" entry.
	Columns   map[OutputContext]int `json:"columns" validate:"required"`
	RowHeight float64               `json:"row_height" validate:"gt=0"`
	GapX      float64               `json:"gap_x" validate:"gte=0"`
	GapY      float64               `json:"gap_y" validate:"gte=0"`
}

// SpanRule maps a content shape to a grid span. Rules are evaluated in
// order; the first rule whose non-nil conditions all match wins.
type SpanRule struct {
	HasImage *bool `json:"has_image,omitempty"`
	Featured *bool `json:"featured,omitempty"`
	ColSpan  int   `json:"col_span" validate:"gte=1"`
	RowSpan  int   `json:"row_span" validate:"gte=1"`
}

// Matches reports whether the rule applies to the given item shape.
func (r *SpanRule) Matches(item *Item) bool {
	if r.HasImage != nil && *r.HasImage != item.HasImage() {
		return false
	}
	if r.Featured != nil && *r.Featured != item.Featured {
		return false
	}
	return true
}

// FillerStrategy selects how leftover body cells are covered.
type FillerStrategy string

// Filler strategies.
const (
	FillerNone      FillerStrategy = "none"
	FillerSingle    FillerStrategy = "single"
	FillerMergeRect FillerStrategy = "merge-rect"
)

// PlacementPolicy selects how the packer searches for a free slot.
type PlacementPolicy string

// Placement policies. Next-fit never looks behind the cursor; best-fit
// scans the whole occupancy grid so later small items can backfill gaps
// left by oversized spans.
const (
	PlacementNextFit PlacementPolicy = "next-fit"
	PlacementBestFit PlacementPolicy = "best-fit"
)

// FillerSpec configures the filler pass.
type FillerSpec struct {
	Strategy FillerStrategy `json:"strategy" validate:"oneof=none single merge-rect"`
	Style    string         `json:"style,omitempty"` // decorative style token for the renderer
}

// IndicatorRule tells the renderer how to draw one indicator code.
type IndicatorRule struct {
	Label  string `json:"label"`
	Symbol string `json:"symbol,omitempty"`
}

// Template is the immutable, versioned visual configuration for a menu
// layout. It is loaded once and shared read-only across generation calls;
// nothing in the engine ever mutates it.
type Template struct {
	ID         string                   `json:"id" validate:"required"`
	Version    int                      `json:"version" validate:"gte=1"`
	Name       string                   `json:"name"`
	Page       PageSpec                 `json:"page"`
	Regions    []RegionSpec             `json:"regions" validate:"min=1,dive"`
	Body       BodySpec                 `json:"body"`
	Spans      []SpanRule               `json:"spans,omitempty" validate:"dive"`
	Filler     FillerSpec               `json:"filler"`
	Placement  PlacementPolicy          `json:"placement,omitempty" validate:"omitempty,oneof=next-fit best-fit"`
	Indicators map[string]IndicatorRule `json:"indicators,omitempty"`
}

// ColumnsFor returns the body column count for the given output context,
// falling back to the desktop variant when the context has no entry.
func (t *Template) ColumnsFor(ctx OutputContext) int {
	if n, ok := t.Body.Columns[ctx]; ok && n > 0 {
		return n
	}
	return t.Body.Columns[ContextDesktop]
}

// SpanFor returns the grid span for an item, looked up from the template's
// span rules. Items with no matching rule occupy a single cell.
func (t *Template) SpanFor(item *Item) (colSpan, rowSpan int) {
	for i := range t.Spans {
		if t.Spans[i].Matches(item) {
			return t.Spans[i].ColSpan, t.Spans[i].RowSpan
		}
	}
	return 1, 1
}

// BodyRegion returns the spec of the template's body region.
func (t *Template) BodyRegion() (*RegionSpec, error) {
	var found *RegionSpec
	for i := range t.Regions {
		if t.Regions[i].Kind == RegionBody {
			if found != nil {
				return nil, fmt.Errorf("template %s has more than one body region", t.ID)
			}
			found = &t.Regions[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("template %s has no body region", t.ID)
	}
	return found, nil
}

// PlacementOrDefault returns the configured placement policy, defaulting to
// next-fit when unset.
func (t *Template) PlacementOrDefault() PlacementPolicy {
	if t.Placement == "" {
		return PlacementNextFit
	}
	return t.Placement
}

// Validate checks template field constraints and structural consistency.
func (t *Template) Validate() error {
	validate := validator.New()
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("template %s is invalid: %w", t.ID, err)
	}
	if _, err := t.BodyRegion(); err != nil {
		return err
	}
	if t.ColumnsFor(ContextDesktop) < 1 {
		return fmt.Errorf("template %s has no desktop column count", t.ID)
	}
	contentWidth := t.Page.Width - t.Page.Margins.Left - t.Page.Margins.Right
	if contentWidth <= 0 {
		return fmt.Errorf("template %s margins leave no horizontal space", t.ID)
	}
	fixed := 0.0
	for i := range t.Regions {
		if t.Regions[i].Kind != RegionBody {
			fixed += t.Regions[i].Height
		}
	}
	if t.Page.Height-t.Page.Margins.Top-t.Page.Margins.Bottom-fixed <= 0 {
		return fmt.Errorf("template %s fixed regions leave no room for the body", t.ID)
	}
	return nil
}
