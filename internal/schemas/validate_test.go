package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinySchema = `{
	"type": "object",
	"required": ["id"],
	"properties": {
		"id": {"type": "string", "minLength": 1}
	}
}`

func TestValidateBytesAccepted(t *testing.T) {
	err := ValidateBytes([]byte(tinySchema), []byte(`{"id": "abc"}`))
	assert.NoError(t, err)
}

func TestValidateBytesReportsFieldErrors(t *testing.T) {
	err := ValidateBytes([]byte(tinySchema), []byte(`{"id": ""}`))
	require.Error(t, err)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Len(t, vErr.Errors, 1)
	assert.Equal(t, "id", vErr.Errors[0].Field)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestValidateBytesBadSchema(t *testing.T) {
	err := ValidateBytes([]byte(`{"type": 42}`), []byte(`{}`))
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestResolveSchemaPathFindsRepoSchemas(t *testing.T) {
	// From this package's directory the repo schemas sit two levels up.
	assert.NotEmpty(t, ResolveSchemaPath(MenuSchemaFile))
	assert.NotEmpty(t, ResolveSchemaPath(TemplateSchemaFile))
	assert.Empty(t, ResolveSchemaPath("schemas/no-such.schema.json"))
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "s.json")
	docPath := filepath.Join(dir, "d.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(tinySchema), 0644))
	require.NoError(t, os.WriteFile(docPath, []byte(`{"id":"x"}`), 0644))

	assert.NoError(t, ValidateFile(schemaPath, docPath))
	assert.Error(t, ValidateFile(schemaPath, filepath.Join(dir, "missing.json")))
}
