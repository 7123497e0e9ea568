package rendering

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultExportTimeout bounds one headless-browser export run.
const DefaultExportTimeout = 30 * time.Second

// pdfPointsPerInch converts page-spec points to the inch units the
// browser's print API expects.
const pdfPointsPerInch = 72.0

// ExportPDF renders the HTML through a headless browser's print-to-PDF.
// pageWidth and pageHeight are in points, matching the layout document's
// page spec, so the PDF page equals the generated page exactly.
// Requires Chrome/Chromium to be installed on the system.
func ExportPDF(ctx context.Context, html string, pageWidth, pageHeight float64, timeout time.Duration) ([]byte, error) {
	var pdf []byte
	err := runBrowser(ctx, html, timeout, chromedp.ActionFunc(func(ctx context.Context) error {
		buf, _, err := page.PrintToPDF().
			WithPaperWidth(pageWidth / pdfPointsPerInch).
			WithPaperHeight(pageHeight / pdfPointsPerInch).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			WithPrintBackground(true).
			Do(ctx)
		if err != nil {
			return err
		}
		pdf = buf
		return nil
	}))
	if err != nil {
		return nil, &ExportError{Format: "pdf", Message: "print to PDF failed", Cause: err}
	}
	return pdf, nil
}

// ExportPNG captures a full-page screenshot of the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func ExportPNG(ctx context.Context, html string, timeout time.Duration) ([]byte, error) {
	var png []byte
	err := runBrowser(ctx, html, timeout, chromedp.FullScreenshot(&png, 100))
	if err != nil {
		return nil, &ExportError{Format: "png", Message: "screenshot failed", Cause: err}
	}
	return png, nil
}

// runBrowser loads the HTML into a fresh headless browser context and runs
// the capture action once the document is ready.
func runBrowser(ctx context.Context, html string, timeout time.Duration, capture chromedp.Action) error {
	if timeout <= 0 {
		timeout = DefaultExportTimeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))
	return chromedp.Run(browserCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		capture,
	)
}
