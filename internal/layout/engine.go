package layout

import (
	"fmt"

	"github.com/jonathan/menu-publisher/internal/types"
	"github.com/jonathan/menu-publisher/internal/validation"
)

// Generate arranges the menu's sections and items into a paginated layout
// document under the given template and output context. The returned
// document has already passed the structural invariant audit; on any
// configuration problem or invariant violation an error is returned and no
// partial document ever escapes. Generation is pure and deterministic:
// identical inputs produce identical documents.
func Generate(menu *types.Menu, tpl *types.Template, ctx types.OutputContext) (*types.LayoutDocument, error) {
	if err := tpl.Validate(); err != nil {
		return nil, &ConfigError{Message: "template failed validation", TemplateID: tpl.ID, Cause: err}
	}
	cols := tpl.ColumnsFor(ctx)
	menu = menu.Normalize()

	// An item whose span exceeds the body's column count can never be
	// placed on any page, so reject before laying anything out.
	for si := range menu.Sections {
		for ii := range menu.Sections[si].Items {
			item := &menu.Sections[si].Items[ii]
			colSpan, _ := tpl.SpanFor(item)
			if colSpan > cols {
				return nil, &ConfigError{
					Message:    fmt.Sprintf("item span %d exceeds the body's %d columns", colSpan, cols),
					TemplateID: tpl.ID,
					ItemID:     item.ID,
					SectionID:  menu.Sections[si].ID,
				}
			}
		}
	}

	pg := newPaginator(tpl, cols)
	if err := pg.openPage(); err != nil {
		return nil, err
	}

	for si := range menu.Sections {
		section := &menu.Sections[si]
		if len(section.Items) == 0 {
			// A header with no items would be a widow by construction.
			continue
		}
		if err := packSection(pg, tpl, section); err != nil {
			return nil, err
		}
	}
	pg.finalizePage()

	doc := &types.LayoutDocument{
		MenuID:          menu.ID,
		TemplateID:      tpl.ID,
		TemplateVersion: tpl.Version,
		Context:         ctx,
		Page:            tpl.Page,
		Pages:           pg.pages,
	}

	// Fail closed: a document that violates its own invariants is a bug in
	// this engine and must never reach a caller.
	if violations := validation.ValidateDocument(doc, tpl); len(violations) > 0 {
		return nil, &InvariantError{
			MenuID:     menu.ID,
			TemplateID: tpl.ID,
			Violations: violations,
		}
	}
	return doc, nil
}

// packSection lays out one section: the header plus first item as an atomic
// unit, then the remaining items, overflowing onto continuation pages with a
// continuation header whenever a page fills mid-section.
func packSection(pg *paginator, tpl *types.Template, section *types.Section) error {
	first := &section.Items[0]
	colSpan, rowSpan := tpl.SpanFor(first)

	if !pg.packer.placeSectionStart(section, first, colSpan, rowSpan, false) {
		pg.finalizePage()
		if err := pg.openPage(); err != nil {
			return err
		}
		if !pg.packer.placeSectionStart(section, first, colSpan, rowSpan, false) {
			// Zero tiles placed across a full page-boundary pass: the
			// header plus first item cannot fit on an empty page.
			return &ConfigError{
				Message:    "section header and first item do not fit on an empty page",
				TemplateID: tpl.ID,
				ItemID:     first.ID,
				SectionID:  section.ID,
			}
		}
	}

	for ii := 1; ii < len(section.Items); ii++ {
		item := &section.Items[ii]
		colSpan, rowSpan := tpl.SpanFor(item)
		if pg.packer.placeItem(section.ID, item, colSpan, rowSpan) {
			continue
		}

		// Page full mid-section: finalize, open a continuation page, and
		// re-emit the section header flagged as a continuation.
		pg.finalizePage()
		if err := pg.openPage(); err != nil {
			return err
		}
		if !pg.packer.placeContinuationHeader(section) ||
			!pg.packer.placeItem(section.ID, item, colSpan, rowSpan) {
			return &ConfigError{
				Message:    "no tiles could be placed on an empty page",
				TemplateID: tpl.ID,
				ItemID:     item.ID,
				SectionID:  section.ID,
			}
		}
	}
	return nil
}
