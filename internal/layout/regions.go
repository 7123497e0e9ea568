package layout

import "github.com/jonathan/menu-publisher/internal/types"

// computeRegions materializes the template's region specs for one page.
// Non-footer regions stack top to bottom in declaration order, footers stack
// up from the page bottom, and the body absorbs whatever height remains.
// Regions marked first-page-only are skipped on continuation pages, which is
// why region boxes are recomputed for every page.
func computeRegions(tpl *types.Template, kind types.PageKind) []types.Region {
	contentX := tpl.Page.Margins.Left
	contentW := tpl.Page.Width - tpl.Page.Margins.Left - tpl.Page.Margins.Right
	topY := tpl.Page.Margins.Top
	bottomY := tpl.Page.Height - tpl.Page.Margins.Bottom

	included := make([]types.RegionSpec, 0, len(tpl.Regions))
	for _, spec := range tpl.Regions {
		if spec.FirstPageOnly && kind != types.PageFirst {
			continue
		}
		included = append(included, spec)
	}

	// Footers claim the bottom first so the body knows its floor.
	footerTop := bottomY
	for i := len(included) - 1; i >= 0; i-- {
		if included[i].Kind == types.RegionFooter {
			footerTop -= included[i].Height
		}
	}

	regions := make([]types.Region, 0, len(included))
	y := topY
	for _, spec := range included {
		switch spec.Kind {
		case types.RegionBody:
			regions = append(regions, types.Region{
				ID:     spec.ID,
				Kind:   spec.Kind,
				X:      contentX,
				Y:      y,
				Width:  contentW,
				Height: footerTop - y,
			})
			y = footerTop
		case types.RegionFooter:
			regions = append(regions, types.Region{
				ID:     spec.ID,
				Kind:   spec.Kind,
				X:      contentX,
				Y:      footerTop,
				Width:  contentW,
				Height: spec.Height,
			})
			footerTop += spec.Height
		default:
			regions = append(regions, types.Region{
				ID:     spec.ID,
				Kind:   spec.Kind,
				X:      contentX,
				Y:      y,
				Width:  contentW,
				Height: spec.Height,
			})
			y += spec.Height
		}
	}
	return regions
}

// bodyOf returns the concrete body region from a computed region list.
func bodyOf(regions []types.Region) *types.Region {
	for i := range regions {
		if regions[i].Kind == types.RegionBody {
			return &regions[i]
		}
	}
	return nil
}
