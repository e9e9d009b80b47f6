package extract

import (
	"context"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
)

// extractImage pre-processes the image for recognition reliability,
// OCRs the optimized copy, and removes it regardless of outcome.
func (e *Extractor) extractImage(ctx context.Context, path string) (string, error) {
	optimized, err := e.optimizeForOCR(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if rmErr := os.Remove(optimized); rmErr != nil {
			e.logger.Warn("extract.image.cleanup_failed", "path", optimized, "error", rmErr)
		}
	}()

	octx, cancel := e.ocrContext(ctx)
	defer cancel()

	text, err := e.engine.Recognize(octx, optimized, nil)
	if err != nil {
		return "", err
	}
	return text, nil
}

// optimizeForOCR writes a grayscale, contrast-normalized, sharpened PNG
// next to the source image.
func (e *Extractor) optimizeForOCR(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", common.NewAppError("READ", "open image "+path, common.ErrReadFailure)
	}

	gray := imaging.Grayscale(img)
	contrast := imaging.AdjustContrast(gray, 10)
	sharp := imaging.Sharpen(contrast, 1.1)

	out := trimExt(path) + "_optimized.png"
	if err := imaging.Save(sharp, out); err != nil {
		return "", common.NewAppError("READ", "save optimized image", common.ErrReadFailure)
	}

	e.logger.Debug("extract.image.optimized", "src", path, "out", out)
	return out, nil
}

func trimExt(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}
