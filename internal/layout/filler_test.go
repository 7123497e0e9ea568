package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/menu-publisher/internal/types"
)

// fillerPage builds a page with a 4x4 body grid and the given content
// placements already occupied.
func fillerPage(tpl *types.Template, placements []types.GridPlacement) (*types.Page, int) {
	regions := computeRegions(tpl, types.PageFirst)
	body := bodyOf(regions)
	geom := newBodyGeom(*body, tpl.Body, 4)
	page := &types.Page{Index: 0, Kind: types.PageFirst, Regions: regions}
	for i, gp := range placements {
		x, y, w, h := geom.rect(gp)
		page.Tiles = append(page.Tiles, types.Tile{
			ID:       "content-" + string(rune('a'+i)),
			RegionID: body.ID,
			Type:     types.TileItemCard,
			Layer:    types.LayerContent,
			X:        x, Y: y, Width: w, Height: h,
			Grid:     gp,
			ItemCard: &types.ItemCard{ItemID: "i", SectionID: "s"},
		})
	}
	return page, geom.rows
}

func fillerTestTemplate(strategy types.FillerStrategy) *types.Template {
	return &types.Template{
		ID:      "tpl-filler",
		Version: 1,
		Page:    types.PageSpec{Width: 400, Height: 360},
		Regions: []types.RegionSpec{
			{ID: "header", Kind: types.RegionHeader, Height: 40},
			{ID: "body", Kind: types.RegionBody},
			{ID: "footer", Kind: types.RegionFooter, Height: 40},
		},
		Body: types.BodySpec{
			Columns:   map[types.OutputContext]int{types.ContextDesktop: 4},
			RowHeight: 70,
		},
		Filler: types.FillerSpec{Strategy: strategy, Style: "leaf"},
	}
}

func countFillerCells(page *types.Page) (tiles, cells int) {
	for _, t := range page.Tiles {
		if t.Type == types.TileFiller {
			tiles++
			cells += t.Grid.ColSpan * t.Grid.RowSpan
		}
	}
	return tiles, cells
}

func TestInsertFillersSingleCoversEveryFreeCell(t *testing.T) {
	tpl := fillerTestTemplate(types.FillerSingle)
	page, rows := fillerPage(tpl, []types.GridPlacement{
		{Row: 0, Col: 0, ColSpan: 2, RowSpan: 1},
		{Row: 1, Col: 1, ColSpan: 1, RowSpan: 2},
	})
	seq := 0
	insertFillers(page, tpl, 4, &seq)

	tiles, cells := countFillerCells(page)
	total := 4 * rows
	assert.Equal(t, total-4, cells, "fillers cover exactly the free cells")
	assert.Equal(t, cells, tiles, "single strategy emits 1x1 tiles only")
	for _, tile := range page.Tiles {
		if tile.Type == types.TileFiller {
			assert.Equal(t, types.LayerBackground, tile.Layer)
			assert.Equal(t, "leaf", tile.Filler.Style)
		}
	}
}

func TestInsertFillersMergeRect(t *testing.T) {
	tpl := fillerTestTemplate(types.FillerMergeRect)
	// Occupy the entire top row: the rest of the body is one free block
	// that merge-rect covers with a single tile.
	page, rows := fillerPage(tpl, []types.GridPlacement{
		{Row: 0, Col: 0, ColSpan: 4, RowSpan: 1},
	})
	seq := 0
	insertFillers(page, tpl, 4, &seq)

	tiles, cells := countFillerCells(page)
	assert.Equal(t, 1, tiles)
	assert.Equal(t, 4*(rows-1), cells)
}

func TestInsertFillersNoneStrategy(t *testing.T) {
	tpl := fillerTestTemplate(types.FillerNone)
	page, _ := fillerPage(tpl, nil)
	seq := 0
	insertFillers(page, tpl, 4, &seq)
	tiles, _ := countFillerCells(page)
	assert.Zero(t, tiles)
}

func TestInsertFillersIsIdempotent(t *testing.T) {
	tpl := fillerTestTemplate(types.FillerMergeRect)
	page, _ := fillerPage(tpl, []types.GridPlacement{
		{Row: 0, Col: 1, ColSpan: 1, RowSpan: 1},
	})
	seq := 0
	insertFillers(page, tpl, 4, &seq)
	count := len(page.Tiles)
	require.NotZero(t, count)

	// A second pass sees a fully covered grid and adds nothing.
	insertFillers(page, tpl, 4, &seq)
	assert.Equal(t, count, len(page.Tiles))
}

func TestInsertFillersDeterministic(t *testing.T) {
	tpl := fillerTestTemplate(types.FillerMergeRect)
	build := func() *types.Page {
		page, _ := fillerPage(tpl, []types.GridPlacement{
			{Row: 0, Col: 0, ColSpan: 1, RowSpan: 1},
			{Row: 2, Col: 2, ColSpan: 2, RowSpan: 1},
		})
		seq := 0
		insertFillers(page, tpl, 4, &seq)
		return page
	}
	assert.Equal(t, build(), build())
}

func TestFillersDisjointFromContent(t *testing.T) {
	tpl := fillerTestTemplate(types.FillerSingle)
	page, _ := fillerPage(tpl, []types.GridPlacement{
		{Row: 1, Col: 0, ColSpan: 3, RowSpan: 2},
	})
	seq := 0
	insertFillers(page, tpl, 4, &seq)

	for i := range page.Tiles {
		for j := i + 1; j < len(page.Tiles); j++ {
			assert.False(t, page.Tiles[i].Overlaps(&page.Tiles[j]),
				"tiles %s and %s overlap", page.Tiles[i].ID, page.Tiles[j].ID)
		}
	}
}
