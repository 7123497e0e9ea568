package layout

import (
	"fmt"

	"github.com/jonathan/menu-publisher/internal/types"
)

// pagePacker places content tiles onto one page's body grid. Placement is
// row-major, left to right. Under the next-fit policy the cursor never moves
// backwards, so a span that does not fit in the remaining columns of the
// current row advances to the next row and the gap stays empty for the
// filler pass. Under best-fit every search restarts at the top-left corner,
// letting later narrow items backfill those gaps.
type pagePacker struct {
	grid      *grid
	geom      bodyGeom
	bodyID    string
	placement types.PlacementPolicy

	cursorRow, cursorCol int
	maxRowEnd            int // first row strictly below every placed tile
	tiles                []types.Tile
	seq                  *int
}

func newPagePacker(body types.Region, spec types.BodySpec, cols int, placement types.PlacementPolicy, seq *int) *pagePacker {
	geom := newBodyGeom(body, spec, cols)
	return &pagePacker{
		grid:      newGrid(geom.cols, geom.rows),
		geom:      geom,
		bodyID:    body.ID,
		placement: placement,
		seq:       seq,
	}
}

func (p *pagePacker) nextTileID() string {
	*p.seq++
	return fmt.Sprintf("tile-%04d", *p.seq)
}

// searchStart returns where a slot search begins for the active policy.
func (p *pagePacker) searchStart() (row, col int) {
	if p.placement == types.PlacementBestFit {
		return 0, 0
	}
	return p.cursorRow, p.cursorCol
}

// advanceCursor moves the next-fit cursor past a placed span.
func (p *pagePacker) advanceCursor(row, col, colSpan int) {
	if p.placement == types.PlacementBestFit {
		return
	}
	if row > p.cursorRow || (row == p.cursorRow && col+colSpan > p.cursorCol) {
		p.cursorRow, p.cursorCol = row, col+colSpan
	}
	if p.cursorCol >= p.grid.cols {
		p.cursorRow++
		p.cursorCol = 0
	}
}

func (p *pagePacker) emit(t types.Tile) {
	x, y, w, h := p.geom.rect(t.Grid)
	t.X, t.Y, t.Width, t.Height = x, y, w, h
	t.RegionID = p.bodyID
	if end := t.Grid.Row + t.Grid.RowSpan; end > p.maxRowEnd {
		p.maxRowEnd = end
	}
	p.tiles = append(p.tiles, t)
}

// placeItem places one item card. It returns false when no slot exists on
// this page, which is the page-full signal for the pagination controller.
func (p *pagePacker) placeItem(sectionID string, item *types.Item, colSpan, rowSpan int) bool {
	startRow, startCol := p.searchStart()
	row, col, ok := p.grid.findFrom(startRow, startCol, colSpan, rowSpan)
	if !ok {
		return false
	}
	p.grid.mark(row, col, colSpan, rowSpan)
	p.advanceCursor(row, col, colSpan)
	p.emit(types.Tile{
		ID:    p.nextTileID(),
		Type:  types.TileItemCard,
		Layer: types.LayerContent,
		Grid:  types.GridPlacement{Row: row, Col: col, ColSpan: colSpan, RowSpan: rowSpan},
		ItemCard: &types.ItemCard{
			ItemID:     item.ID,
			SectionID:  sectionID,
			Indicators: item.Indicators(),
			Featured:   item.Featured,
		},
	})
	return true
}

// headerTile builds a full-width header tile at the given row.
func (p *pagePacker) headerTile(section *types.Section, row int, continuation bool) types.Tile {
	return types.Tile{
		ID:    p.nextTileID(),
		Type:  types.TileSectionHeader,
		Layer: types.LayerContent,
		Grid:  types.GridPlacement{Row: row, Col: 0, ColSpan: p.grid.cols, RowSpan: 1},
		SectionHeader: &types.SectionHeader{
			SectionID:      section.ID,
			Label:          section.Name,
			IsContinuation: continuation,
		},
	}
}

// placeSectionStart places a section header together with its first item as
// one atomic unit. The header occupies a full fresh row strictly below every
// tile already on the page; the first item goes below the header. If the
// pair cannot fit on this page neither tile is placed, so a header can never
// be stranded at the bottom of a page.
func (p *pagePacker) placeSectionStart(section *types.Section, item *types.Item, colSpan, rowSpan int, continuation bool) bool {
	hRow, _, ok := p.grid.findFrom(p.maxRowEnd, 0, p.grid.cols, 1)
	if !ok {
		return false
	}

	p.grid.mark(hRow, 0, p.grid.cols, 1)
	iRow, iCol, ok := p.grid.findFrom(hRow+1, 0, colSpan, rowSpan)
	if !ok {
		p.grid.unmark(hRow, 0, p.grid.cols, 1)
		return false
	}

	p.emit(p.headerTile(section, hRow, continuation))
	p.cursorRow, p.cursorCol = hRow+1, 0

	p.grid.mark(iRow, iCol, colSpan, rowSpan)
	p.advanceCursor(iRow, iCol, colSpan)
	p.emit(types.Tile{
		ID:    p.nextTileID(),
		Type:  types.TileItemCard,
		Layer: types.LayerContent,
		Grid:  types.GridPlacement{Row: iRow, Col: iCol, ColSpan: colSpan, RowSpan: rowSpan},
		ItemCard: &types.ItemCard{
			ItemID:     item.ID,
			SectionID:  section.ID,
			Indicators: item.Indicators(),
			Featured:   item.Featured,
		},
	})
	return true
}

// placeContinuationHeader places a header-only tile at the top of a fresh
// continuation page, before the section's remaining items resume. It is the
// one header placement that is not paired with an item; the validator
// exempts it from the widow check via the continuation flag.
func (p *pagePacker) placeContinuationHeader(section *types.Section) bool {
	row, _, ok := p.grid.findFrom(p.maxRowEnd, 0, p.grid.cols, 1)
	if !ok {
		return false
	}
	p.grid.mark(row, 0, p.grid.cols, 1)
	p.emit(p.headerTile(section, row, true))
	p.cursorRow, p.cursorCol = row+1, 0
	return true
}
