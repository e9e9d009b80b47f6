// Package ocr wraps the text-recognition engine behind a small
// interface so extraction code can run against a fake in tests.
package ocr

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
)

// ProgressFunc reports fractional recognition progress in 0.0..1.0.
type ProgressFunc func(fraction float64)

// Engine recognizes text in a single image file.
type Engine interface {
	Recognize(ctx context.Context, imagePath string, onProgress ProgressFunc) (string, error)
}

// Config holds tesseract invocation settings.
type Config struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	TessdataDir string
	PSM         int // e.g. 6 for a uniform block of text; 0 = engine default
}

// TesseractEngine shells out to tesseract via a Runner.
type TesseractEngine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewTesseractEngine(cfg Config, runner Runner, logger *slog.Logger) *TesseractEngine {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractEngine{cfg: cfg, runner: runner, logger: logger}
}

// Recognize runs tesseract on one image and returns the recognized
// text. The external process gives no incremental feedback, so the
// progress callback fires at start and completion only.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string, onProgress ProgressFunc) (string, error) {
	if onProgress != nil {
		onProgress(0)
	}

	args := []string{imagePath, "stdout", "-l", e.cfg.Lang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		e.logger.Error("ocr.recognize.failed",
			"path", imagePath,
			"stderr", truncate(string(errb), 2<<10),
			"error", err)
		return "", common.NewAppError("OCR", "tesseract failed on "+imagePath, common.ErrOCRFailure)
	}

	if onProgress != nil {
		onProgress(1)
	}
	text := string(out)
	e.logger.Debug("ocr.recognize.ok", "path", imagePath, "chars", len(text))
	return text, nil
}
