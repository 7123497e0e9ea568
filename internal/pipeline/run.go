// Package pipeline provides the high-level orchestration for generating
// and exporting menu layouts.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/menu-publisher/internal/cache"
	"github.com/jonathan/menu-publisher/internal/db"
	"github.com/jonathan/menu-publisher/internal/layout"
	"github.com/jonathan/menu-publisher/internal/rendering"
	"github.com/jonathan/menu-publisher/internal/schemas"
	"github.com/jonathan/menu-publisher/internal/templates"
	"github.com/jonathan/menu-publisher/internal/types"
)

// RunOptions holds configuration for a generation run.
type RunOptions struct {
	MenuPath     string
	TemplatePath string // empty selects the built-in default template
	Context      types.OutputContext
	Formats      []string // html, pdf, png
	OutputDir    string
	HTMLShell    string // optional override for the HTML render template
	NoCache      bool
	Cache        cache.Cache // shared across runs by the caller; nil disables caching
	DatabaseURL  string
	Logger       *log.Logger
}

// Result summarizes a completed run.
type Result struct {
	Document    *types.LayoutDocument
	PageCount   int
	OutputFiles map[string]string // format -> written path
}

// Run loads a menu and template, generates the layout document, and
// exports it in the requested formats. Exports run concurrently.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
		})
	}

	menu, menuJSON, err := loadMenu(opts.MenuPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded menu", "id", menu.ID, "sections", len(menu.Sections), "items", menu.ItemCount())

	tpl, err := loadTemplate(opts.TemplatePath)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded template", "id", tpl.ID, "version", tpl.Version)

	// Database persistence is best-effort; a run still succeeds without it.
	var database *db.DB
	var layoutID uuid.UUID
	if opts.DatabaseURL != "" {
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			logger.Warn("database unavailable, continuing without persistence", "error", err)
		} else {
			defer database.Close()
			menuHash := cache.Hash(menuJSON)
			if err := database.SaveMenu(ctx, menu.ID, menu.Name, menuHash, menuJSON); err != nil {
				logger.Warn("failed to save menu", "error", err)
			}
			layoutID, err = database.CreateLayout(ctx, menu.ID, tpl.ID, tpl.Version, string(opts.Context))
			if err != nil {
				logger.Warn("failed to create layout record", "error", err)
			}
		}
	}

	store := runCache(opts)

	doc, docJSON, err := generateDocument(ctx, store, menu, menuJSON, tpl, opts.Context, logger)
	if err != nil {
		if database != nil && layoutID != uuid.Nil {
			_ = database.FailLayout(ctx, layoutID)
		}
		return nil, err
	}
	logger.Info("layout generated", "menu", menu.ID, "pages", len(doc.Pages))

	if database != nil && layoutID != uuid.Nil {
		if err := database.CompleteLayout(ctx, layoutID, docJSON, len(doc.Pages)); err != nil {
			logger.Warn("failed to store layout document", "error", err)
		}
	}

	result := &Result{
		Document:    doc,
		PageCount:   len(doc.Pages),
		OutputFiles: make(map[string]string),
	}
	if len(opts.Formats) == 0 {
		return result, nil
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// HTML is rendered once and shared by the browser-based exports.
	html, err := rendering.RenderHTML(doc, menu, tpl, opts.HTMLShell)
	if err != nil {
		return nil, err
	}

	docHash := cache.Hash(docJSON)
	g, gCtx := errgroup.WithContext(ctx)
	var mu sync.Mutex

	for _, format := range opts.Formats {
		format := format
		g.Go(func() error {
			data, err := exportFormat(gCtx, store, docHash, format, html, tpl)
			if err != nil {
				return fmt.Errorf("%s export failed: %w", format, err)
			}
			path := filepath.Join(opts.OutputDir, "menu-"+menu.ID+"."+format)
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			logger.Info("exported", "format", format, "path", path)
			mu.Lock()
			result.OutputFiles[format] = path
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// loadMenu reads and validates a menu JSON file.
func loadMenu(path string) (*types.Menu, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read menu file %s: %w", path, err)
	}

	if schemaPath := schemas.ResolveSchemaPath(schemas.MenuSchemaFile); schemaPath != "" {
		if schema, err := os.ReadFile(schemaPath); err == nil {
			if err := schemas.ValidateBytes(schema, data); err != nil {
				return nil, nil, err
			}
		}
	}

	var menu types.Menu
	if err := json.Unmarshal(data, &menu); err != nil {
		return nil, nil, fmt.Errorf("failed to parse menu JSON: %w", err)
	}
	return &menu, data, nil
}

// loadTemplate parses a template file, or returns the built-in default
// when no path is given.
func loadTemplate(path string) (*types.Template, error) {
	if path == "" {
		return templates.Default(), nil
	}
	return templates.Load(path)
}

// runCache picks the cache for this run. The caller owns the injected
// cache's lifetime; a run never closes it.
func runCache(opts RunOptions) cache.Cache {
	if opts.NoCache || opts.Cache == nil {
		return cache.NewNullCache()
	}
	return opts.Cache
}

// generateDocument produces the layout document, serving a cached copy
// when the same menu, template, and context were seen before.
func generateDocument(ctx context.Context, store cache.Cache, menu *types.Menu, menuJSON []byte, tpl *types.Template, outputContext types.OutputContext, logger *log.Logger) (*types.LayoutDocument, []byte, error) {
	key := cache.LayoutKey(cache.Hash(menuJSON), tpl.ID, tpl.Version, string(outputContext))
	if cached, hit, err := store.Get(ctx, key); err == nil && hit {
		var doc types.LayoutDocument
		if err := json.Unmarshal(cached, &doc); err == nil {
			logger.Debug("layout cache hit", "key", key)
			return &doc, cached, nil
		}
	}

	doc, err := layout.Generate(menu, tpl, outputContext)
	if err != nil {
		return nil, nil, err
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal layout document: %w", err)
	}
	_ = store.Set(ctx, key, docJSON, 0)
	return doc, docJSON, nil
}

// exportFormat produces one artifact, consulting the export cache first.
func exportFormat(ctx context.Context, store cache.Cache, docHash, format, html string, tpl *types.Template) ([]byte, error) {
	key := cache.ExportKey(docHash, format)
	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		return data, nil
	}

	var data []byte
	var err error
	switch format {
	case "html":
		data = []byte(html)
	case "pdf":
		data, err = rendering.ExportPDF(ctx, html, tpl.Page.Width, tpl.Page.Height, rendering.DefaultExportTimeout)
	case "png":
		data, err = rendering.ExportPNG(ctx, html, rendering.DefaultExportTimeout)
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return nil, err
	}
	_ = store.Set(ctx, key, data, 0)
	return data, nil
}
