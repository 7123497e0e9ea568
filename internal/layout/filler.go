package layout

import (
	"fmt"

	"github.com/jonathan/menu-publisher/internal/types"
)

// insertFillers synthesizes FILLER tiles covering every body cell the packer
// left empty, merged per the template's filler strategy. The occupancy grid
// is rebuilt from the page's existing tiles (fillers included), so running
// the pass on an already-filled page is a no-op. Emission is row-major and
// therefore deterministic.
func insertFillers(page *types.Page, tpl *types.Template, cols int, seq *int) {
	if tpl.Filler.Strategy == types.FillerNone {
		return
	}
	body := bodyOf(page.Regions)
	if body == nil {
		return
	}
	geom := newBodyGeom(*body, tpl.Body, cols)
	g := newGrid(geom.cols, geom.rows)
	for i := range page.Tiles {
		t := &page.Tiles[i]
		if t.RegionID != body.ID {
			continue
		}
		g.mark(t.Grid.Row, t.Grid.Col, t.Grid.ColSpan, t.Grid.RowSpan)
	}

	for _, gp := range fillerPlacements(g, tpl.Filler.Strategy) {
		*seq++
		x, y, w, h := geom.rect(gp)
		page.Tiles = append(page.Tiles, types.Tile{
			ID:       fmt.Sprintf("tile-%04d", *seq),
			RegionID: body.ID,
			Type:     types.TileFiller,
			Layer:    types.LayerBackground,
			X:        x,
			Y:        y,
			Width:    w,
			Height:   h,
			Grid:     gp,
			Filler:   &types.Filler{Style: tpl.Filler.Style},
		})
	}
}

// fillerPlacements computes the grid placements covering all free cells.
// The single strategy emits one 1x1 placement per free cell; merge-rect
// greedily grows a maximal rectangle from each uncovered free cell, first
// rightward then downward.
func fillerPlacements(g *grid, strategy types.FillerStrategy) []types.GridPlacement {
	var out []types.GridPlacement
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.occupied(r, c) {
				continue
			}
			if strategy == types.FillerSingle {
				g.mark(r, c, 1, 1)
				out = append(out, types.GridPlacement{Row: r, Col: c, ColSpan: 1, RowSpan: 1})
				continue
			}
			w := 1
			for c+w < g.cols && !g.occupied(r, c+w) {
				w++
			}
			h := 1
			for r+h < g.rows && g.free(r+h, c, w, 1) {
				h++
			}
			g.mark(r, c, w, h)
			out = append(out, types.GridPlacement{Row: r, Col: c, ColSpan: w, RowSpan: h})
		}
	}
	return out
}
