package types

// ViolationCode is a machine-readable structural violation kind.
type ViolationCode string

// Violation codes emitted by the invariant validator.
const (
	ViolationTileOutsideRegion ViolationCode = "TILE_OUTSIDE_REGION"
	ViolationTilesOverlap      ViolationCode = "TILES_OVERLAP"
	ViolationWidowedHeader     ViolationCode = "WIDOWED_SECTION_HEADER"
	ViolationItemNotInBody     ViolationCode = "ITEM_NOT_IN_BODY"
	ViolationPayloadMissing    ViolationCode = "TILE_PAYLOAD_MISSING"
)

// Violation represents a single structural invariant failure on a generated
// document. TileIDs names the offending tile(s); SectionID is set for
// section-scoped violations.
type Violation struct {
	Code      ViolationCode `json:"code"`
	Message   string        `json:"message"`
	PageIndex int           `json:"page_index"`
	TileIDs   []string      `json:"tile_ids,omitempty"`
	SectionID string        `json:"section_id,omitempty"`
}
