package layout

import (
	"math"

	"github.com/jonathan/menu-publisher/internal/types"
)

// grid is a boolean occupancy grid over the body region's cells.
type grid struct {
	cols, rows int
	cells      []bool
}

func newGrid(cols, rows int) *grid {
	return &grid{cols: cols, rows: rows, cells: make([]bool, cols*rows)}
}

func (g *grid) occupied(row, col int) bool {
	return g.cells[row*g.cols+col]
}

// free reports whether every cell of the span starting at (row, col) is
// inside the grid and unoccupied.
func (g *grid) free(row, col, colSpan, rowSpan int) bool {
	if row < 0 || col < 0 || row+rowSpan > g.rows || col+colSpan > g.cols {
		return false
	}
	for r := row; r < row+rowSpan; r++ {
		for c := col; c < col+colSpan; c++ {
			if g.occupied(r, c) {
				return false
			}
		}
	}
	return true
}

func (g *grid) mark(row, col, colSpan, rowSpan int) {
	for r := row; r < row+rowSpan; r++ {
		for c := col; c < col+colSpan; c++ {
			g.cells[r*g.cols+c] = true
		}
	}
}

func (g *grid) unmark(row, col, colSpan, rowSpan int) {
	for r := row; r < row+rowSpan; r++ {
		for c := col; c < col+colSpan; c++ {
			g.cells[r*g.cols+c] = false
		}
	}
}

// findFrom scans row-major for the first free slot for the span, starting at
// (fromRow, fromCol). A span never straddles a row boundary: if it does not
// fit in the remaining columns of a row the scan moves to the next row.
func (g *grid) findFrom(fromRow, fromCol, colSpan, rowSpan int) (row, col int, ok bool) {
	for r := fromRow; r <= g.rows-rowSpan; r++ {
		startCol := 0
		if r == fromRow {
			startCol = fromCol
		}
		for c := startCol; c <= g.cols-colSpan; c++ {
			if g.free(r, c, colSpan, rowSpan) {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// bodyGeom translates grid placements into absolute page coordinates.
type bodyGeom struct {
	region     types.Region
	cols, rows int
	cellW      float64
	rowH       float64
	gapX, gapY float64
}

// newBodyGeom derives the cell geometry of a concrete body region. The row
// count is how many full rows (plus inter-row gaps) fit in the region
// height; it drives pagination.
func newBodyGeom(region types.Region, body types.BodySpec, cols int) bodyGeom {
	cellW := (region.Width - body.GapX*float64(cols-1)) / float64(cols)
	rows := int(math.Floor((region.Height + body.GapY) / (body.RowHeight + body.GapY)))
	if rows < 0 {
		rows = 0
	}
	return bodyGeom{
		region: region,
		cols:   cols,
		rows:   rows,
		cellW:  cellW,
		rowH:   body.RowHeight,
		gapX:   body.GapX,
		gapY:   body.GapY,
	}
}

// rect returns the absolute box of a grid placement.
func (b *bodyGeom) rect(gp types.GridPlacement) (x, y, w, h float64) {
	x = b.region.X + float64(gp.Col)*(b.cellW+b.gapX)
	y = b.region.Y + float64(gp.Row)*(b.rowH+b.gapY)
	w = float64(gp.ColSpan)*b.cellW + float64(gp.ColSpan-1)*b.gapX
	h = float64(gp.RowSpan)*b.rowH + float64(gp.RowSpan-1)*b.gapY
	return x, y, w, h
}
