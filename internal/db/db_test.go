package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusConstants(t *testing.T) {
	statuses := []string{StatusRunning, StatusCompleted, StatusFailed}
	for _, s := range statuses {
		assert.NotEmpty(t, s, "status constant should not be empty")
	}
}

func TestLayoutRecordType(t *testing.T) {
	rec := LayoutRecord{
		MenuID:          "dinner-2026",
		TemplateID:      "classic",
		TemplateVersion: 1,
		Context:         "desktop",
		Status:          StatusRunning,
	}

	assert.Equal(t, "dinner-2026", rec.MenuID)
	assert.Equal(t, "classic", rec.TemplateID)
	assert.Equal(t, StatusRunning, rec.Status)
	assert.Nil(t, rec.CompletedAt)
}

func TestLayoutFiltersZeroValue(t *testing.T) {
	var f LayoutFilters
	assert.Empty(t, f.MenuID)
	assert.Empty(t, f.Status)
	assert.Zero(t, f.Limit)
}
