package templates

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/menu-publisher/internal/types"
)

const validTemplateJSON = `{
	"id": "bistro",
	"version": 2,
	"name": "Bistro",
	"page": {"width": 612, "height": 792, "margins": {"top": 30, "right": 30, "bottom": 30, "left": 30}},
	"regions": [
		{"id": "header", "kind": "header", "height": 50},
		{"id": "body", "kind": "body"},
		{"id": "footer", "kind": "footer", "height": 24}
	],
	"body": {"columns": {"mobile": 1, "desktop": 3}, "row_height": 64, "gap_x": 6, "gap_y": 6},
	"spans": [{"featured": true, "col_span": 2, "row_span": 1}],
	"filler": {"strategy": "single"}
}`

func TestDefaultTemplateIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseValidTemplate(t *testing.T) {
	tpl, err := Parse([]byte(validTemplateJSON), "inline")
	require.NoError(t, err)
	assert.Equal(t, "bistro", tpl.ID)
	assert.Equal(t, 2, tpl.Version)
	assert.Equal(t, 3, tpl.ColumnsFor(types.ContextDesktop))
	assert.Equal(t, types.FillerSingle, tpl.Filler.Strategy)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"id": `), "inline")
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	// Negative version fails the JSON schema (and struct validation).
	bad := `{
		"id": "x", "version": -1,
		"page": {"width": 100, "height": 100},
		"regions": [{"id": "body", "kind": "body"}],
		"body": {"columns": {"desktop": 1}, "row_height": 40}
	}`
	_, err := Parse([]byte(bad), "inline")
	require.Error(t, err)
}

func TestParseDefaultsFillerStrategy(t *testing.T) {
	noFiller := `{
		"id": "plain", "version": 1,
		"page": {"width": 400, "height": 600},
		"regions": [
			{"id": "header", "kind": "header", "height": 40},
			{"id": "body", "kind": "body"}
		],
		"body": {"columns": {"desktop": 2}, "row_height": 60}
	}`
	tpl, err := Parse([]byte(noFiller), "inline")
	require.NoError(t, err)
	assert.Equal(t, types.FillerNone, tpl.Filler.Strategy)
}

func TestRegistryVersioning(t *testing.T) {
	r := NewRegistry()

	v1, err := Parse([]byte(validTemplateJSON), "inline")
	require.NoError(t, err)
	v1.Version = 1
	r.Add(v1)
	v3, err := Parse([]byte(validTemplateJSON), "inline")
	require.NoError(t, err)
	v3.Version = 3
	r.Add(v3)

	got, err := r.Get("bistro", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)

	// Version 0 resolves the newest registered version.
	got, err = r.Get("bistro", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Version)

	_, err = r.Get("bistro", 9)
	assert.Error(t, err)
	_, err = r.Get("nope", 0)
	assert.Error(t, err)

	// The built-in default is always present.
	_, err = r.Get("classic", 0)
	assert.NoError(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bistro.json"), []byte(validTemplateJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	r := NewRegistry()
	require.NoError(t, r.LoadDir(dir))
	_, err := r.Get("bistro", 2)
	assert.NoError(t, err)

	list := r.List()
	require.Len(t, list, 2) // classic + bistro
	assert.Equal(t, "bistro", list[0].ID)
	assert.Equal(t, "classic", list[1].ID)
}
