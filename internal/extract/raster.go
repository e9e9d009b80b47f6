package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/ocr"
)

// Rasterizer renders one PDF page at a time into a scratch directory so
// OCR memory stays bounded to a single page image.
type Rasterizer struct {
	pdftoppm   string
	pdfinfo    string
	dpi        int
	pageWidth  int
	pageHeight int
	runner     ocr.Runner
}

func NewRasterizer(cfg Config, runner ocr.Runner) *Rasterizer {
	return &Rasterizer{
		pdftoppm:   cfg.Pdftoppm,
		pdfinfo:    cfg.Pdfinfo,
		dpi:        cfg.DPI,
		pageWidth:  cfg.PageWidth,
		pageHeight: cfg.PageHeight,
		runner:     runner,
	}
}

var rePageCount = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)

// PageCount asks pdfinfo how many pages the document has.
func (r *Rasterizer) PageCount(ctx context.Context, path string) (int, error) {
	out, errb, err := r.runner.Run(ctx, r.pdfinfo, path)
	if err != nil {
		return 0, common.NewAppError("RASTER",
			fmt.Sprintf("pdfinfo failed: %s", strings.TrimSpace(string(errb))),
			common.ErrRasterFailure)
	}
	m := rePageCount.FindSubmatch(out)
	if m == nil {
		return 0, common.NewAppError("RASTER", "pdfinfo reported no page count", common.ErrRasterFailure)
	}
	n, err := strconv.Atoi(string(m[1]))
	if err != nil || n <= 0 {
		return 0, common.NewAppError("RASTER", "bad page count from pdfinfo", common.ErrRasterFailure)
	}
	return n, nil
}

// RasterizePage renders page n (1-based) to a PNG inside dir and
// returns the image path. Fixed density and pixel dimensions keep OCR
// input uniform across documents.
func (r *Rasterizer) RasterizePage(ctx context.Context, path string, n int, dir string) (string, error) {
	// Per-page prefix: a partial image left behind by a failed earlier
	// page must never satisfy this page's glob.
	prefix := filepath.Join(dir, fmt.Sprintf("page%d", n))
	// pdftoppm -f N -l N -r 300 -scale-to-x 2480 -scale-to-y 3508 -png <in.pdf> <dir>/pageN
	_, errb, err := r.runner.Run(ctx, r.pdftoppm,
		"-f", strconv.Itoa(n), "-l", strconv.Itoa(n),
		"-r", strconv.Itoa(r.dpi),
		"-scale-to-x", strconv.Itoa(r.pageWidth),
		"-scale-to-y", strconv.Itoa(r.pageHeight),
		"-png", path, prefix)
	if err != nil {
		return "", common.NewAppError("RASTER",
			fmt.Sprintf("pdftoppm page %d: %s", n, strings.TrimSpace(string(errb))),
			common.ErrRasterFailure)
	}

	// pdftoppm zero-pads the page suffix depending on total pages, so
	// glob instead of guessing the exact name.
	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		return "", common.NewAppError("RASTER",
			fmt.Sprintf("pdftoppm produced no image for page %d", n),
			common.ErrRasterFailure)
	}
	return matches[0], nil
}

// Cleanup removes a page image, best-effort.
func (r *Rasterizer) Cleanup(imagePath string) {
	_ = os.Remove(imagePath)
}
