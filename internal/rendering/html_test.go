package rendering

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/menu-publisher/internal/layout"
	"github.com/jonathan/menu-publisher/internal/types"
)

func renderTestTemplate() *types.Template {
	return &types.Template{
		ID:      "tpl-render",
		Version: 1,
		Page:    types.PageSpec{Width: 400, Height: 500},
		Regions: []types.RegionSpec{
			{ID: "header", Kind: types.RegionHeader, Height: 40},
			{ID: "body", Kind: types.RegionBody},
			{ID: "footer", Kind: types.RegionFooter, Height: 40},
		},
		Body: types.BodySpec{
			Columns:   map[types.OutputContext]int{types.ContextDesktop: 2},
			RowHeight: 70,
		},
		Filler: types.FillerSpec{Strategy: types.FillerSingle, Style: "dots"},
		Indicators: map[string]types.IndicatorRule{
			"vegan":     {Label: "Vegan", Symbol: "V"},
			"spice:hot": {Label: "Hot", Symbol: "!!!"},
		},
	}
}

func renderTestMenu() *types.Menu {
	return &types.Menu{
		ID:        "menu-r",
		Name:      "Supper Club",
		Currency:  "USD",
		VenueName: "The Copper Pot",
		Sections: []types.Section{
			{ID: "mains", Name: "Mains", Items: []types.Item{
				{ID: "stew", Name: "Harvest Stew", Description: "Root vegetables, barley", Price: 14.5, SortOrder: 1, Dietary: []string{"vegan"}, SpiceLevel: 3},
				{ID: "pie", Name: "Shepherd's Pie", Price: 16, SortOrder: 2},
			}},
		},
	}
}

func renderDoc(t *testing.T) (*types.LayoutDocument, *types.Menu, *types.Template) {
	t.Helper()
	tpl := renderTestTemplate()
	menu := renderTestMenu()
	doc, err := layout.Generate(menu, tpl, types.ContextDesktop)
	require.NoError(t, err)
	return doc, menu, tpl
}

func TestRenderHTMLStructure(t *testing.T) {
	doc, menu, tpl := renderDoc(t)
	html, err := RenderHTML(doc, menu, tpl, "")
	require.NoError(t, err)

	q, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, len(doc.Pages), q.Find("div.page").Length())
	assert.Equal(t, 2, q.Find("div.tile.item").Length())
	assert.Equal(t, 1, q.Find("div.tile.header").Length())
	assert.Equal(t, "Mains", strings.TrimSpace(q.Find("div.tile.header").First().Text()))

	// Every tile carries its absolute position from the document.
	q.Find("div.tile").Each(func(_ int, s *goquery.Selection) {
		style, ok := s.Attr("style")
		assert.True(t, ok)
		assert.Contains(t, style, "left:")
		assert.Contains(t, style, "top:")
	})

	// Fillers cover the rest of the grid cells.
	fillers := q.Find("div.tile.filler")
	assert.Greater(t, fillers.Length(), 0)
	style, _ := fillers.First().Attr("data-style")
	assert.Equal(t, "dots", style)
}

func TestRenderHTMLPricesAndIndicators(t *testing.T) {
	doc, menu, tpl := renderDoc(t)
	html, err := RenderHTML(doc, menu, tpl, "")
	require.NoError(t, err)

	q, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	prices := q.Find("span.price").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
	assert.Contains(t, prices, "$14.50")
	assert.Contains(t, prices, "$16.00")

	badges := q.Find("div.badges").First().Text()
	assert.Contains(t, badges, "V")
	assert.Contains(t, badges, "!!!")
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	doc, menu, tpl := renderDoc(t)
	menu.Sections[0].Items[0].Name = `<script>alert("x")</script>`
	html, err := RenderHTML(doc, menu, tpl, "")
	require.NoError(t, err)
	assert.NotContains(t, html, `<script>alert`)
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderHTMLUnknownItemFails(t *testing.T) {
	doc, menu, tpl := renderDoc(t)
	menu.Sections[0].Items = menu.Sections[0].Items[:1] // drop an item the doc references
	_, err := RenderHTML(doc, menu, tpl, "")
	require.Error(t, err)
	var rErr *RenderError
	assert.ErrorAs(t, err, &rErr)
}

func TestRenderHTMLMissingTemplateFile(t *testing.T) {
	doc, menu, tpl := renderDoc(t)
	_, err := RenderHTML(doc, menu, tpl, "does/not/exist.tmpl")
	var tErr *TemplateError
	assert.ErrorAs(t, err, &tErr)
}

func TestRenderHTMLIsDeterministic(t *testing.T) {
	doc, menu, tpl := renderDoc(t)
	a, err := RenderHTML(doc, menu, tpl, "")
	require.NoError(t, err)
	b, err := RenderHTML(doc, menu, tpl, "")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{9.5, "USD", "$9.50"},
		{12, "EUR", "€12.00"},
		{7.25, "GBP", "£7.25"},
		{1200, "SEK", "SEK 1200.00"},
	}
	for _, tc := range cases {
		t.Run(tc.currency, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatPrice(tc.amount, tc.currency))
		})
	}
}

func TestContinuationMarkerRendered(t *testing.T) {
	tpl := renderTestTemplate() // 2 cols x 6 rows per page
	menu := &types.Menu{
		ID:       "menu-long",
		Name:     "Long",
		Currency: "USD",
		Sections: []types.Section{{ID: "s", Name: "Everything", Items: longItems(15)}},
	}
	doc, err := layout.Generate(menu, tpl, types.ContextDesktop)
	require.NoError(t, err)
	require.Greater(t, len(doc.Pages), 1)

	html, err := RenderHTML(doc, menu, tpl, "")
	require.NoError(t, err)
	q, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	assert.Greater(t, q.Find("span.cont").Length(), 0)
}

func longItems(n int) []types.Item {
	items := make([]types.Item, n)
	for i := range items {
		items[i] = types.Item{
			ID:        fmt.Sprintf("it-%02d", i),
			Name:      fmt.Sprintf("Item %d", i),
			Price:     8,
			SortOrder: i,
		}
	}
	return items
}
