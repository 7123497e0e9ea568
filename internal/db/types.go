package db

import (
	"time"

	"github.com/google/uuid"
)

// MenuRecord is a stored menu definition. Content holds the menu JSON as
// submitted; ContentHash is the SHA-256 of that JSON and keys cache
// lookups for layouts generated from it.
type MenuRecord struct {
	ID          uuid.UUID `json:"id"`
	MenuID      string    `json:"menu_id"`
	Name        string    `json:"name"`
	ContentHash string    `json:"content_hash"`
	Content     []byte    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LayoutRecord is a stored layout generation result.
type LayoutRecord struct {
	ID              uuid.UUID  `json:"id"`
	MenuID          string     `json:"menu_id"`
	TemplateID      string     `json:"template_id"`
	TemplateVersion int        `json:"template_version"`
	Context         string     `json:"context"`
	Status          string     `json:"status"`
	Document        []byte     `json:"document,omitempty"`
	PageCount       int        `json:"page_count"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Layout status constants
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// LayoutFilters holds optional filters for listing layouts
type LayoutFilters struct {
	MenuID     string
	TemplateID string
	Status     string
	Limit      int
}
