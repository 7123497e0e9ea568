// Package layout implements the constraint-based layout engine that arranges
// a normalized menu into a paginated document of positioned tiles.
package layout

import (
	"fmt"

	"github.com/jonathan/menu-publisher/internal/types"
)

// ConfigError represents a template or input configuration that no layout
// can ever satisfy. It is fatal and not retried.
type ConfigError struct {
	Message    string
	TemplateID string
	ItemID     string
	SectionID  string
	Cause      error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("layout configuration error: %s", e.Message)
	if e.ItemID != "" {
		msg += fmt.Sprintf(" (item %s)", e.ItemID)
	}
	if e.SectionID != "" {
		msg += fmt.Sprintf(" (section %s)", e.SectionID)
	}
	if e.TemplateID != "" {
		msg += fmt.Sprintf(" (template %s)", e.TemplateID)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// InvariantError means a generated document failed its own structural audit.
// The engine fails closed: a document carrying violations is never returned.
type InvariantError struct {
	MenuID     string
	TemplateID string
	Violations []types.Violation
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("generated layout for menu %s (template %s) violates %d structural invariant(s); first: %s",
		e.MenuID, e.TemplateID, len(e.Violations), e.Violations[0].Message)
}
