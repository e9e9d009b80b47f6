package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jjones1stptllc/titlegrab-desktop/constants"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/progress"
)

// digitalTextThreshold separates digital PDFs from scanned ones: a real
// text layer trims to well over this many characters.
const digitalTextThreshold = 100

func (e *Extractor) extractPDF(ctx context.Context, path string, sink progress.Sink) (string, error) {
	sink(constants.StagePDF, 20, "Reading PDF document...", nil)

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, _, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", common.NewAppError("READ", "pdftotext failed on "+path, common.ErrReadFailure)
	}

	text := string(out)
	if len(strings.TrimSpace(text)) > digitalTextThreshold {
		e.logger.Info("extract.pdf.digital", "path", path, "chars", len(text))
		sink(constants.StagePDF, 75, "Text extracted from PDF", map[string]any{"chars": len(text)})
		return text, nil
	}

	e.logger.Info("extract.pdf.scanned", "path", path, "text_layer_chars", len(strings.TrimSpace(text)))
	return e.ocrPDF(ctx, path, sink)
}

// ocrPDF rasterizes and recognizes a scanned PDF one page at a time,
// sequentially. A failed page is logged and skipped; the document still
// yields the text of every page that worked.
func (e *Extractor) ocrPDF(ctx context.Context, path string, sink progress.Sink) (string, error) {
	raster := NewRasterizer(e.cfg, e.runner)

	total, err := raster.PageCount(ctx, path)
	if err != nil {
		return "", err
	}
	if e.cfg.MaxPages > 0 && total > e.cfg.MaxPages {
		total = e.cfg.MaxPages
	}

	sink(constants.StageOCR, 15, fmt.Sprintf("Starting OCR on %d pages...", total),
		map[string]any{"currentPage": 0, "totalPages": total})

	if e.cfg.TempDir != "" {
		if err := os.MkdirAll(e.cfg.TempDir, 0o755); err != nil {
			return "", common.NewAppError("READ", "create raster temp dir", common.ErrReadFailure)
		}
	}
	dir, err := os.MkdirTemp(e.cfg.TempDir, "titlegrab-pages-*")
	if err != nil {
		return "", common.NewAppError("READ", "create raster temp dir", common.ErrReadFailure)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			e.logger.Warn("extract.pdf.tempdir_cleanup_failed", "dir", dir, "error", rmErr)
		}
	}()

	var b strings.Builder
	for page := 1; page <= total; page++ {
		pct := 15 + int(float64(page)/float64(total)*60+0.5)
		sink(constants.StageOCR, pct, fmt.Sprintf("OCR: Page %d of %d", page, total),
			map[string]any{"currentPage": page, "totalPages": total})

		pctx, cancel := e.ocrContext(ctx)
		img, err := raster.RasterizePage(pctx, path, page, dir)
		if err != nil {
			cancel()
			e.logger.Warn("extract.pdf.page_raster_failed", "path", path, "page", page, "error", err)
			continue
		}

		pageText, err := e.engine.Recognize(pctx, img, nil)
		cancel()
		raster.Cleanup(img)
		if err != nil {
			e.logger.Warn("extract.pdf.page_ocr_failed", "path", path, "page", page, "error", err)
			continue
		}

		fmt.Fprintf(&b, "\n--- PAGE %d ---\n%s", page, pageText)
	}

	return b.String(), nil
}
