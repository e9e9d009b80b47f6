// Package extract converts heterogeneous document files into raw text.
package extract

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jjones1stptllc/titlegrab-desktop/constants"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/ocr"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/progress"
)

// TextExtractor is the interface the orchestrator depends on.
type TextExtractor interface {
	Extract(ctx context.Context, path, mediaType string, sink progress.Sink) (string, error)
}

// Config holds extraction settings.
type Config struct {
	Pdftotext    string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm     string // if empty -> "pdftoppm"
	Pdfinfo      string // if empty -> "pdfinfo"
	DocConverter string // binary for legacy .doc files; empty means unsupported
	DPI          int    // rasterization DPI, default 300
	PageWidth    int    // raster pixel width, default 2480 (A4 at 300 DPI)
	PageHeight   int    // raster pixel height, default 3508
	MaxPages     int           // 0 = no limit
	TempDir      string        // per-job raster dirs live under here, default os temp
	OCRTimeout   time.Duration // bound per page raster+recognize; 0 = unbounded
}

// Extractor routes a file to the right per-format converter.
type Extractor struct {
	cfg    Config
	runner ocr.Runner
	engine ocr.Engine
	logger *slog.Logger
}

func NewExtractor(cfg Config, runner ocr.Runner, engine ocr.Engine, logger *slog.Logger) *Extractor {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Pdfinfo == "" {
		cfg.Pdfinfo = "pdfinfo"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.PageWidth <= 0 {
		cfg.PageWidth = 2480
	}
	if cfg.PageHeight <= 0 {
		cfg.PageHeight = 3508
	}
	if runner == nil {
		runner = ocr.ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, runner: runner, engine: engine, logger: logger}
}

// Extract classifies the file and runs the matching converter,
// reporting progress through sink. A nil sink is allowed.
func (e *Extractor) Extract(ctx context.Context, path, mediaType string, sink progress.Sink) (string, error) {
	if sink == nil {
		sink = func(constants.Stage, int, string, map[string]any) {}
	}

	format, err := DetectFormat(path, mediaType)
	if err != nil {
		return "", err
	}
	e.logger.Debug("extract.start", "path", path, "format", format)

	switch format {
	case constants.PDF:
		return e.extractPDF(ctx, path, sink)
	case constants.IMAGE:
		return e.extractImage(ctx, path)
	case constants.WORD:
		return e.extractWord(ctx, path)
	case constants.HTML:
		return e.extractHTML(path)
	case constants.TEXT:
		return e.readPlain(path)
	default:
		return "", common.NewAppError("FORMAT", "no extractor for format "+string(format), common.ErrUnsupportedFormat)
	}
}

// ocrContext caps one recognition unit of work at the configured
// timeout. Expiry surfaces as a failed page/image, not a hung job.
func (e *Extractor) ocrContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.OCRTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.cfg.OCRTimeout)
}

func (e *Extractor) readPlain(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", common.NewAppError("READ", "read "+path, common.ErrReadFailure)
	}
	return string(b), nil
}
