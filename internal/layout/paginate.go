package layout

import "github.com/jonathan/menu-publisher/internal/types"

// paginator owns the page sequence during a generation call. It opens pages
// with regions recomputed from the template (first-page-only regions drop
// off after page one), finalizes each full page through the filler pass, and
// tracks the document-wide tile id sequence.
type paginator struct {
	tpl  *types.Template
	cols int

	pages      []types.Page
	packer     *pagePacker
	kind       types.PageKind
	curRegions []types.Region
	seq        int
}

func newPaginator(tpl *types.Template, cols int) *paginator {
	return &paginator{tpl: tpl, cols: cols}
}

// openPage starts a new page and returns an error when the template leaves
// the body with no usable grid rows, since no content could ever be placed.
func (pg *paginator) openPage() error {
	kind := types.PageFirst
	if len(pg.pages) > 0 {
		kind = types.PageContinuation
	}
	regions := computeRegions(pg.tpl, kind)
	body := bodyOf(regions)
	if body == nil {
		return &ConfigError{Message: "template has no body region", TemplateID: pg.tpl.ID}
	}
	packer := newPagePacker(*body, pg.tpl.Body, pg.cols, pg.tpl.PlacementOrDefault(), &pg.seq)
	if packer.grid.rows < 1 {
		return &ConfigError{
			Message:    "body region is too short for a single grid row",
			TemplateID: pg.tpl.ID,
		}
	}
	pg.packer = packer
	pg.kind = kind
	pg.curRegions = regions
	return nil
}

// finalizePage closes the current page: the filler pass covers leftover
// cells and the page is appended to the document in order.
func (pg *paginator) finalizePage() {
	if pg.packer == nil {
		return
	}
	page := types.Page{
		Index:   len(pg.pages),
		Kind:    pg.kind,
		Regions: pg.curRegions,
		Tiles:   pg.packer.tiles,
	}
	insertFillers(&page, pg.tpl, pg.cols, &pg.seq)
	pg.pages = append(pg.pages, page)
	pg.packer = nil
}
