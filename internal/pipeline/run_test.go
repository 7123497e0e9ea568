package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/menu-publisher/internal/cache"
	"github.com/jonathan/menu-publisher/internal/schemas"
	"github.com/jonathan/menu-publisher/internal/types"
)

const pipelineMenuJSON = `{
  "id": "lunch",
  "name": "Lunch Menu",
  "currency": "USD",
  "sections": [
    {
      "id": "salads",
      "name": "Salads",
      "sort_order": 1,
      "items": [
        {"id": "caesar", "name": "Caesar", "price": 11, "sort_order": 1},
        {"id": "cobb", "name": "Cobb", "price": 13, "sort_order": 2}
      ]
    },
    {
      "id": "soups",
      "name": "Soups",
      "sort_order": 2,
      "items": [
        {"id": "tomato", "name": "Tomato Bisque", "price": 8, "sort_order": 1}
      ]
    }
  ]
}`

func writeMenu(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunHTMLExport(t *testing.T) {
	outDir := t.TempDir()
	opts := RunOptions{
		MenuPath:  writeMenu(t, pipelineMenuJSON),
		Context:   types.ContextDesktop,
		Formats:   []string{"html"},
		OutputDir: outDir,
	}

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, result.Document)
	assert.Equal(t, "lunch", result.Document.MenuID)
	assert.Equal(t, len(result.Document.Pages), result.PageCount)

	path, ok := result.OutputFiles["html"]
	require.True(t, ok)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Caesar")
	assert.Contains(t, string(data), "Salads")
}

func TestRunSharedCachePersistsAcrossRuns(t *testing.T) {
	store := cache.NewMemoryCache()
	defer store.Close()

	opts := RunOptions{
		MenuPath:  writeMenu(t, pipelineMenuJSON),
		Context:   types.ContextDesktop,
		Formats:   []string{"html"},
		OutputDir: t.TempDir(),
		Cache:     store,
	}

	first, err := Run(context.Background(), opts)
	require.NoError(t, err)
	// The layout document and the export artifact are both keyed in.
	assert.Equal(t, 2, store.Len())

	second, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, first.PageCount, second.PageCount)
	assert.Equal(t, 2, store.Len())
}

func TestRunWithoutFormatsSkipsExport(t *testing.T) {
	opts := RunOptions{
		MenuPath: writeMenu(t, pipelineMenuJSON),
		Context:  types.ContextMobile,
	}

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, result.OutputFiles)
	assert.Greater(t, result.PageCount, 0)
}

func TestRunRejectsInvalidMenu(t *testing.T) {
	// currency must be a three-letter code per the menu schema
	bad := `{"id": "x", "name": "X", "currency": "dollars", "sections": []}`
	opts := RunOptions{
		MenuPath: writeMenu(t, bad),
		Context:  types.ContextDesktop,
	}

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	var vErr *schemas.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestRunMissingMenuFile(t *testing.T) {
	opts := RunOptions{MenuPath: "/nonexistent/menu.json", Context: types.ContextDesktop}
	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read menu file")
}

func TestRunUnknownFormat(t *testing.T) {
	opts := RunOptions{
		MenuPath:  writeMenu(t, pipelineMenuJSON),
		Context:   types.ContextDesktop,
		Formats:   []string{"docx"},
		OutputDir: t.TempDir(),
	}

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docx export failed")
}
