// Package types provides type definitions for structured data used throughout the menu-publisher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "sort"

// Item represents a single menu entry within a section.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	ImageRef    string   `json:"image_ref,omitempty"` // Storage key of the item photo, if any
	SortOrder   int      `json:"sort_order"`
	Dietary     []string `json:"dietary,omitempty"`   // e.g. "vegan", "vegetarian", "gluten-free"
	Allergens   []string `json:"allergens,omitempty"` // e.g. "nuts", "shellfish", "dairy"
	SpiceLevel  int      `json:"spice_level,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
}

// HasImage reports whether the item carries an image reference.
func (i *Item) HasImage() bool {
	return i.ImageRef != ""
}

// Indicators returns the flattened indicator codes shown on the item's card:
// dietary codes, allergen codes prefixed with "allergen:", and a spice code.
func (i *Item) Indicators() []string {
	out := make([]string, 0, len(i.Dietary)+len(i.Allergens)+1)
	out = append(out, i.Dietary...)
	for _, a := range i.Allergens {
		out = append(out, "allergen:"+a)
	}
	if i.SpiceLevel > 0 {
		out = append(out, spiceCode(i.SpiceLevel))
	}
	return out
}

func spiceCode(level int) string {
	switch {
	case level >= 3:
		return "spice:hot"
	case level == 2:
		return "spice:medium"
	default:
		return "spice:mild"
	}
}

// Section represents an ordered group of items under a shared heading.
type Section struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	Items     []Item `json:"items"`
}

// Menu is the normalized input to layout generation. It is produced upstream
// (content extraction and editing are out of scope here) and treated as
// read-only for the duration of a generation call.
type Menu struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Currency     string    `json:"currency"` // ISO 4217 code, e.g. "USD"
	VenueName    string    `json:"venue_name,omitempty"`
	VenueAddress string    `json:"venue_address,omitempty"`
	LogoRef      string    `json:"logo_ref,omitempty"`
	Sections     []Section `json:"sections"`
}

// Normalize returns a copy of the menu with sections and items ordered by
// their sort order (ties broken by id so the result is deterministic).
// Generation always operates on a normalized menu.
func (m *Menu) Normalize() *Menu {
	out := *m
	out.Sections = make([]Section, len(m.Sections))
	copy(out.Sections, m.Sections)
	sort.SliceStable(out.Sections, func(a, b int) bool {
		if out.Sections[a].SortOrder != out.Sections[b].SortOrder {
			return out.Sections[a].SortOrder < out.Sections[b].SortOrder
		}
		return out.Sections[a].ID < out.Sections[b].ID
	})
	for si := range out.Sections {
		items := make([]Item, len(out.Sections[si].Items))
		copy(items, out.Sections[si].Items)
		sort.SliceStable(items, func(a, b int) bool {
			if items[a].SortOrder != items[b].SortOrder {
				return items[a].SortOrder < items[b].SortOrder
			}
			return items[a].ID < items[b].ID
		})
		out.Sections[si].Items = items
	}
	return &out
}

// ItemCount returns the total number of items across all sections.
func (m *Menu) ItemCount() int {
	n := 0
	for _, s := range m.Sections {
		n += len(s.Items)
	}
	return n
}
