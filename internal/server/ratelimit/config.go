package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// Limiter names used by the server. Each expensive operation gets its own
// limiter instance; export formats are configured stricter than generation.
const (
	NameGenerate   = "generate"
	NameExportHTML = "export:html"
	NameExportPDF  = "export:pdf"
	NameExportPNG  = "export:png"
)

// LoadConfigs builds the named limiter configurations from environment
// variables, falling back to the defaults below.
func LoadConfigs() map[string]Config {
	return map[string]Config{
		NameGenerate: {
			MaxRequests: getEnvInt("RATE_LIMIT_GENERATE_MAX", 30),
			Window:      getEnvDuration("RATE_LIMIT_GENERATE_WINDOW", time.Minute),
			Message:     "layout generation limit reached",
		},
		NameExportHTML: {
			MaxRequests: getEnvInt("RATE_LIMIT_EXPORT_HTML_MAX", 12),
			Window:      getEnvDuration("RATE_LIMIT_EXPORT_WINDOW", time.Minute),
			Message:     "HTML export limit reached",
		},
		NameExportPDF: {
			MaxRequests: getEnvInt("RATE_LIMIT_EXPORT_PDF_MAX", 6),
			Window:      getEnvDuration("RATE_LIMIT_EXPORT_WINDOW", time.Minute),
			Message:     "PDF export limit reached",
		},
		NameExportPNG: {
			MaxRequests: getEnvInt("RATE_LIMIT_EXPORT_PNG_MAX", 6),
			Window:      getEnvDuration("RATE_LIMIT_EXPORT_WINDOW", time.Minute),
			Message:     "image export limit reached",
		},
	}
}

// NewSet constructs one limiter per config entry over a shared store type
// but independent instances, keyed by name.
func NewSet(configs map[string]Config, opts ...Option) map[string]*Limiter {
	set := make(map[string]*Limiter, len(configs))
	for name, cfg := range configs {
		set[name] = New(name, cfg, opts...)
	}
	return set
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
