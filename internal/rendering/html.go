package rendering

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/jonathan/menu-publisher/internal/types"
)

// TemplateData is the root structure passed to the HTML template.
type TemplateData struct {
	MenuName  string
	VenueName string
	Pages     []PageData
}

// PageData is one rendered page.
type PageData struct {
	Index  int
	Width  float64
	Height float64
	Tiles  []TileData
}

// TileData is one absolutely positioned tile.
type TileData struct {
	Kind       string // "item", "header", "filler"
	X, Y, W, H float64
	// Item card fields
	Name        string
	Description string
	Price       string
	Featured    bool
	Indicators  []IndicatorData
	// Section header fields
	Label        string
	Continuation bool
	// Filler fields
	Style string
}

// IndicatorData is one rendered dietary/allergen/spice badge.
type IndicatorData struct {
	Code   string
	Label  string
	Symbol string
}

// RenderHTML renders a layout document into a standalone HTML page. The
// menu supplies the text content the tiles reference; the template supplies
// indicator rules. templatePath overrides the built-in HTML template when
// non-empty. Rendering walks tiles in document order, so output is as
// deterministic as the document itself.
func RenderHTML(doc *types.LayoutDocument, menu *types.Menu, tpl *types.Template, templatePath string) (string, error) {
	htmlTmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}
	data, err := buildTemplateData(doc, menu, tpl)
	if err != nil {
		return "", &RenderError{Message: "failed to build template data", Cause: err}
	}
	var out strings.Builder
	if err := htmlTmpl.Execute(&out, data); err != nil {
		return "", &TemplateError{Message: "failed to execute HTML template", Cause: err}
	}
	return out.String(), nil
}

func parseTemplate(templatePath string) (*template.Template, error) {
	content := defaultHTMLTemplate
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &TemplateError{
					Message: fmt.Sprintf("template file not found: %s", templatePath),
					Cause:   err,
				}
			}
			return nil, &TemplateError{
				Message: fmt.Sprintf("failed to read template file: %s", templatePath),
				Cause:   err,
			}
		}
		content = string(raw)
	}
	tmpl, err := template.New("menu").Parse(content)
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse HTML template", Cause: err}
	}
	return tmpl, nil
}

func buildTemplateData(doc *types.LayoutDocument, menu *types.Menu, tpl *types.Template) (*TemplateData, error) {
	items := make(map[string]*types.Item)
	for si := range menu.Sections {
		for ii := range menu.Sections[si].Items {
			item := &menu.Sections[si].Items[ii]
			items[item.ID] = item
		}
	}

	data := &TemplateData{
		MenuName:  menu.Name,
		VenueName: menu.VenueName,
	}
	for _, page := range doc.Pages {
		pd := PageData{
			Index:  page.Index,
			Width:  doc.Page.Width,
			Height: doc.Page.Height,
		}
		for _, tile := range page.Tiles {
			td := TileData{X: tile.X, Y: tile.Y, W: tile.Width, H: tile.Height}
			switch tile.Type {
			case types.TileItemCard:
				item, ok := items[tile.ItemCard.ItemID]
				if !ok {
					return nil, fmt.Errorf("tile %s references unknown item %s", tile.ID, tile.ItemCard.ItemID)
				}
				td.Kind = "item"
				td.Name = item.Name
				td.Description = item.Description
				td.Price = FormatPrice(item.Price, menu.Currency)
				td.Featured = tile.ItemCard.Featured
				for _, code := range tile.ItemCard.Indicators {
					td.Indicators = append(td.Indicators, resolveIndicator(tpl, code))
				}
			case types.TileSectionHeader:
				td.Kind = "header"
				td.Label = tile.SectionHeader.Label
				td.Continuation = tile.SectionHeader.IsContinuation
			case types.TileFiller:
				td.Kind = "filler"
				td.Style = tile.Filler.Style
			default:
				return nil, fmt.Errorf("tile %s has unknown type %q", tile.ID, tile.Type)
			}
			pd.Tiles = append(pd.Tiles, td)
		}
		data.Pages = append(data.Pages, pd)
	}
	return data, nil
}

func resolveIndicator(tpl *types.Template, code string) IndicatorData {
	if rule, ok := tpl.Indicators[code]; ok {
		return IndicatorData{Code: code, Label: rule.Label, Symbol: rule.Symbol}
	}
	return IndicatorData{Code: code, Label: code}
}

// FormatPrice renders a price with its currency symbol. Unknown currency
// codes fall back to "CODE amount". This is display formatting only; the
// engine never does monetary arithmetic.
func FormatPrice(amount float64, currency string) string {
	symbols := map[string]string{
		"USD": "$", "EUR": "€", "GBP": "£", "JPY": "¥",
		"CAD": "$", "AUD": "$", "MXN": "$",
	}
	if sym, ok := symbols[currency]; ok {
		return fmt.Sprintf("%s%.2f", sym, amount)
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}

// defaultHTMLTemplate positions every tile absolutely inside fixed-size
// page containers, mirroring the document's geometry one to one.
const defaultHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.MenuName}}</title>
<style>
  body { margin: 0; font-family: Georgia, serif; background: #f4f1ea; }
  .page { position: relative; margin: 0 auto; background: #fffdf8; box-shadow: 0 1px 4px rgba(0,0,0,.2); page-break-after: always; }
  .tile { position: absolute; box-sizing: border-box; overflow: hidden; z-index: 1; }
  .tile.item { border: 1px solid #d8d2c4; border-radius: 4px; padding: 6px 8px; background: #fff; }
  .tile.item.featured { border-color: #b3552e; border-width: 2px; }
  .tile.header { border-bottom: 2px solid #b3552e; font-variant: small-caps; font-size: 18px; padding: 4px 8px; }
  .tile.filler { z-index: 0; background: repeating-linear-gradient(45deg, #f4f1ea, #f4f1ea 6px, #efe9dd 6px, #efe9dd 12px); }
  .name { font-weight: bold; }
  .price { float: right; }
  .desc { font-size: 11px; color: #666; }
  .badges { font-size: 10px; color: #7a5c2e; }
  .cont { font-size: 11px; font-style: italic; color: #888; }
</style>
</head>
<body>
{{range .Pages}}<div class="page" data-page="{{.Index}}" style="width:{{.Width}}pt;height:{{.Height}}pt">
{{range .Tiles}}{{if eq .Kind "item"}}  <div class="tile item{{if .Featured}} featured{{end}}" style="left:{{.X}}pt;top:{{.Y}}pt;width:{{.W}}pt;height:{{.H}}pt">
    <span class="name">{{.Name}}</span><span class="price">{{.Price}}</span>
    {{if .Description}}<div class="desc">{{.Description}}</div>{{end}}
    {{if .Indicators}}<div class="badges">{{range .Indicators}}<span title="{{.Label}}">{{if .Symbol}}{{.Symbol}}{{else}}{{.Label}}{{end}}</span> {{end}}</div>{{end}}
  </div>
{{else if eq .Kind "header"}}  <div class="tile header" style="left:{{.X}}pt;top:{{.Y}}pt;width:{{.W}}pt;height:{{.H}}pt">
    {{.Label}}{{if .Continuation}} <span class="cont">(continued)</span>{{end}}
  </div>
{{else}}  <div class="tile filler" data-style="{{.Style}}" style="left:{{.X}}pt;top:{{.Y}}pt;width:{{.W}}pt;height:{{.H}}pt"></div>
{{end}}{{end}}</div>
{{end}}</body>
</html>
`
