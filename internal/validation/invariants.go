// Package validation provides the independent structural audit of generated
// layout documents. It shares no code with the packing engine so that a bug
// in placement cannot hide a matching bug in the check.
package validation

import (
	"fmt"

	"github.com/jonathan/menu-publisher/internal/types"
)

// ValidateDocument audits a finished document against the structural
// invariants and returns every violation found, in page order. An empty
// result means the document is valid. The audit is pure: it never mutates
// the document and has no side effects.
//
// Invariants checked, one code each:
//   - TILE_OUTSIDE_REGION: every tile's box lies inside its owning region.
//   - TILES_OVERLAP: no two content-layer tiles on a page intersect.
//     Background tiles may overlap anything; touching edges are fine.
//   - WIDOWED_SECTION_HEADER: every non-continuation section header has a
//     same-section item card on its page at or after it.
//   - ITEM_NOT_IN_BODY: item cards only ever occupy the body region.
//   - TILE_PAYLOAD_MISSING: every tile carries the payload its type names.
//     Documents arrive as caller-supplied JSON, so a tile may claim a type
//     without the matching payload; such tiles are reported here and skipped
//     by the payload-dependent checks.
func ValidateDocument(doc *types.LayoutDocument, tpl *types.Template) []types.Violation {
	var out []types.Violation
	bodyID := ""
	for i := range tpl.Regions {
		if tpl.Regions[i].Kind == types.RegionBody {
			bodyID = tpl.Regions[i].ID
		}
	}
	for pi := range doc.Pages {
		page := &doc.Pages[pi]
		out = append(out, checkPayloads(page)...)
		out = append(out, checkTileBounds(page)...)
		out = append(out, checkOverlaps(page)...)
		out = append(out, checkWidowedHeaders(page)...)
		out = append(out, checkItemsInBody(page, bodyID)...)
	}
	return out
}

// checkPayloads verifies the tagged payload each tile type requires is
// present. The later checks dereference these payloads, so tiles flagged
// here are excluded from them.
func checkPayloads(page *types.Page) []types.Violation {
	var out []types.Violation
	for i := range page.Tiles {
		t := &page.Tiles[i]
		missing := false
		switch t.Type {
		case types.TileItemCard:
			missing = t.ItemCard == nil
		case types.TileSectionHeader:
			missing = t.SectionHeader == nil
		case types.TileFiller:
			missing = t.Filler == nil
		}
		if missing {
			out = append(out, types.Violation{
				Code:      types.ViolationPayloadMissing,
				Message:   fmt.Sprintf("tile %s has type %s but no matching payload on page %d", t.ID, t.Type, page.Index),
				PageIndex: page.Index,
				TileIDs:   []string{t.ID},
			})
		}
	}
	return out
}

func checkTileBounds(page *types.Page) []types.Violation {
	var out []types.Violation
	for i := range page.Tiles {
		t := &page.Tiles[i]
		region := page.Region(t.RegionID)
		if region == nil {
			out = append(out, types.Violation{
				Code:      types.ViolationTileOutsideRegion,
				Message:   fmt.Sprintf("tile %s references unknown region %s on page %d", t.ID, t.RegionID, page.Index),
				PageIndex: page.Index,
				TileIDs:   []string{t.ID},
			})
			continue
		}
		if !region.Contains(t.X, t.Y, t.Width, t.Height) {
			out = append(out, types.Violation{
				Code:      types.ViolationTileOutsideRegion,
				Message:   fmt.Sprintf("tile %s extends outside region %s on page %d", t.ID, t.RegionID, page.Index),
				PageIndex: page.Index,
				TileIDs:   []string{t.ID},
			})
		}
	}
	return out
}

// checkOverlaps compares every pair of content-layer tiles on the page.
// Pairwise cost is acceptable at realistic per-page tile counts.
func checkOverlaps(page *types.Page) []types.Violation {
	var out []types.Violation
	for i := range page.Tiles {
		a := &page.Tiles[i]
		if a.Layer != types.LayerContent {
			continue
		}
		for j := i + 1; j < len(page.Tiles); j++ {
			b := &page.Tiles[j]
			if b.Layer != types.LayerContent {
				continue
			}
			if a.Overlaps(b) {
				out = append(out, types.Violation{
					Code:      types.ViolationTilesOverlap,
					Message:   fmt.Sprintf("tiles %s and %s overlap on page %d", a.ID, b.ID, page.Index),
					PageIndex: page.Index,
					TileIDs:   []string{a.ID, b.ID},
				})
			}
		}
	}
	return out
}

// checkWidowedHeaders requires that a non-continuation header is followed on
// its own page by at least one item card of the same section. "At or after"
// is row-major position: strictly below the header, or on its row at or
// right of it.
func checkWidowedHeaders(page *types.Page) []types.Violation {
	var out []types.Violation
	for i := range page.Tiles {
		h := &page.Tiles[i]
		if h.Type != types.TileSectionHeader || h.SectionHeader == nil || h.SectionHeader.IsContinuation {
			continue
		}
		found := false
		for j := range page.Tiles {
			t := &page.Tiles[j]
			if t.Type != types.TileItemCard || t.ItemCard == nil || t.ItemCard.SectionID != h.SectionHeader.SectionID {
				continue
			}
			if t.Y > h.Y || (t.Y == h.Y && t.X >= h.X) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, types.Violation{
				Code:      types.ViolationWidowedHeader,
				Message:   fmt.Sprintf("section header %s (section %s) has no item on page %d", h.ID, h.SectionHeader.SectionID, page.Index),
				PageIndex: page.Index,
				TileIDs:   []string{h.ID},
				SectionID: h.SectionHeader.SectionID,
			})
		}
	}
	return out
}

func checkItemsInBody(page *types.Page, bodyID string) []types.Violation {
	var out []types.Violation
	for i := range page.Tiles {
		t := &page.Tiles[i]
		if t.Type != types.TileItemCard {
			continue
		}
		if t.RegionID != bodyID {
			out = append(out, types.Violation{
				Code:      types.ViolationItemNotInBody,
				Message:   fmt.Sprintf("item card %s sits in region %s instead of the body on page %d", t.ID, t.RegionID, page.Index),
				PageIndex: page.Index,
				TileIDs:   []string{t.ID},
			})
		}
	}
	return out
}
