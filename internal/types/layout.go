package types

// TileType discriminates the tile payload. Exactly one payload field of a
// Tile is non-nil, matching its type; consumers switch on Type and treat an
// unknown value as an error so new tile kinds surface immediately.
type TileType string

// Tile types.
const (
	TileItemCard      TileType = "ITEM_CARD"
	TileSectionHeader TileType = "SECTION_HEADER"
	TileFiller        TileType = "FILLER"
)

// TileLayer separates tiles that must not overlap from decorative ones.
type TileLayer string

// Tile layers. Content tiles are mutually non-overlapping; background tiles
// may overlap anything.
const (
	LayerContent    TileLayer = "content"
	LayerBackground TileLayer = "background"
)

// PageKind distinguishes the opening page from continuation pages.
type PageKind string

// Page kinds.
const (
	PageFirst        PageKind = "first"
	PageContinuation PageKind = "continuation"
)

// Region is a concrete rectangular zone on a generated page.
type Region struct {
	ID     string  `json:"id"`
	Kind   RegionKind `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the given box lies fully inside the region,
// tolerating float rounding at the edges.
func (r *Region) Contains(x, y, w, h float64) bool {
	const eps = 0.01
	return x >= r.X-eps && y >= r.Y-eps &&
		x+w <= r.X+r.Width+eps && y+h <= r.Y+r.Height+eps
}

// GridPlacement records where a tile sits in the body grid.
type GridPlacement struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	ColSpan int `json:"col_span"`
	RowSpan int `json:"row_span"`
}

// ItemCard is the payload of an ITEM_CARD tile.
type ItemCard struct {
	ItemID     string   `json:"item_id"`
	SectionID  string   `json:"section_id"`
	Indicators []string `json:"indicators,omitempty"`
	Featured   bool     `json:"featured,omitempty"`
}

// SectionHeader is the payload of a SECTION_HEADER tile.
type SectionHeader struct {
	SectionID      string `json:"section_id"`
	Label          string `json:"label"`
	IsContinuation bool   `json:"is_continuation,omitempty"`
}

// Filler is the payload of a FILLER tile.
type Filler struct {
	Style string `json:"style,omitempty"`
}

// Tile is an atomic positioned visual unit placed in a region on a page.
// Position and size are absolute page coordinates in points.
type Tile struct {
	ID       string        `json:"id"`
	RegionID string        `json:"region_id"`
	Type     TileType      `json:"type"`
	Layer    TileLayer     `json:"layer"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Grid     GridPlacement `json:"grid"`

	// Tagged payload: exactly one is set, per Type.
	ItemCard      *ItemCard      `json:"item_card,omitempty"`
	SectionHeader *SectionHeader `json:"section_header,omitempty"`
	Filler        *Filler        `json:"filler,omitempty"`
}

// Overlaps reports whether two tile boxes intersect with positive area.
// Touching edges do not count as overlap.
func (t *Tile) Overlaps(o *Tile) bool {
	return t.X < o.X+o.Width && o.X < t.X+t.Width &&
		t.Y < o.Y+o.Height && o.Y < t.Y+t.Height
}

// Page is one generated page: its concrete regions and ordered tiles.
type Page struct {
	Index   int      `json:"index"`
	Kind    PageKind `json:"kind"`
	Regions []Region `json:"regions"`
	Tiles   []Tile   `json:"tiles"`
}

// Region returns the concrete region with the given id, or nil.
func (p *Page) Region(id string) *Region {
	for i := range p.Regions {
		if p.Regions[i].ID == id {
			return &p.Regions[i]
		}
	}
	return nil
}

// LayoutDocument is the finished arrangement handed to renderers and
// exporters. It is immutable once returned from generation.
type LayoutDocument struct {
	MenuID          string        `json:"menu_id"`
	TemplateID      string        `json:"template_id"`
	TemplateVersion int           `json:"template_version"`
	Context         OutputContext `json:"context"`
	Page            PageSpec      `json:"page"`
	Pages           []Page        `json:"pages"`
}
