package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"context": "print",
		"formats": ["html", "pdf"],
		"output_dir": "out",
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "print", cfg.Context)
	assert.Equal(t, []string{"html", "pdf"}, cfg.Formats)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_UnknownContext(t *testing.T) {
	cfg := &Config{Context: "watch"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown context")
}

func TestValidate_UnknownFormat(t *testing.T) {
	cfg := &Config{Formats: []string{"html", "docx"}}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")
}

func TestValidate_MissingMenuFile(t *testing.T) {
	cfg := &Config{Menu: "/nonexistent/menu.json"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "menu file not found")
}

func TestValidate_OK(t *testing.T) {
	menuFile := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(menuFile, []byte(`{}`), 0644))

	cfg := &Config{Menu: menuFile, Context: "desktop", Formats: []string{"html"}}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Context: "mobile"}
	defaults := Config{
		Context:   "desktop",
		OutputDir: "out",
		Formats:   []string{"html"},
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "mobile", merged.Context, "explicit value should win")
	assert.Equal(t, "out", merged.OutputDir)
	assert.Equal(t, []string{"html"}, merged.Formats)
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestNewJWTConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours)
}

func TestNewJWTConfig_InvalidExpiration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "zero")

	_, err := NewJWTConfig()
	assert.Error(t, err)
}

func TestNewJWTConfig_NonPositiveExpiration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "0")

	_, err := NewJWTConfig()
	assert.Error(t, err)
}
