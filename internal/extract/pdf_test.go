package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/ocr"
)

// fakeRunner scripts the poppler tools. pdftoppm writes a placeholder
// page image so the rasterizer's glob finds it, like the real binary.
type fakeRunner struct {
	pdfText   string
	pageCount int
	calls     []string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, name)
	switch {
	case strings.Contains(name, "pdftotext"):
		return []byte(r.pdfText), nil, nil
	case strings.Contains(name, "pdfinfo"):
		return []byte(fmt.Sprintf("Title:\nPages:          %d\n", r.pageCount)), nil, nil
	case strings.Contains(name, "pdftoppm"):
		var page int
		for i, a := range args {
			if a == "-f" {
				page, _ = strconv.Atoi(args[i+1])
			}
		}
		prefix := args[len(args)-1]
		return nil, nil, os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, page), []byte("png"), 0o644)
	default:
		return nil, nil, fmt.Errorf("unexpected command %s", name)
	}
}

// fakeEngine maps page image names to recognized text or errors.
type fakeEngine struct {
	failPages map[int]bool
	calls     int
}

func (e *fakeEngine) Recognize(_ context.Context, imagePath string, _ ocr.ProgressFunc) (string, error) {
	e.calls++
	base := strings.TrimSuffix(filepath.Base(imagePath), ".png")
	parts := strings.Split(base, "-")
	page, _ := strconv.Atoi(parts[len(parts)-1])
	if e.failPages[page] {
		return "", common.NewAppError("OCR", "unreadable page", common.ErrOCRFailure)
	}
	return fmt.Sprintf("text of page %d", page), nil
}

func TestExtractPDFDigitalFastPath(t *testing.T) {
	runner := &fakeRunner{pdfText: strings.Repeat("Deed Book 123 Page 456. ", 10)}
	engine := &fakeEngine{}
	e := NewExtractor(Config{TempDir: t.TempDir()}, runner, engine, nil)

	text, err := e.Extract(context.Background(), "deed.pdf", "", nil)
	require.NoError(t, err)
	assert.Contains(t, text, "Deed Book 123")
	assert.Zero(t, engine.calls, "digital PDF must not invoke OCR")
}

func TestExtractPDFScannedRunsOCREveryPage(t *testing.T) {
	runner := &fakeRunner{pdfText: "  short  ", pageCount: 3}
	engine := &fakeEngine{}
	e := NewExtractor(Config{TempDir: t.TempDir()}, runner, engine, nil)

	text, err := e.Extract(context.Background(), "scan.pdf", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, engine.calls)
	for page := 1; page <= 3; page++ {
		assert.Contains(t, text, fmt.Sprintf("--- PAGE %d ---", page))
		assert.Contains(t, text, fmt.Sprintf("text of page %d", page))
	}
}

func TestExtractPDFPerPageFailureIsolation(t *testing.T) {
	runner := &fakeRunner{pdfText: "", pageCount: 3}
	engine := &fakeEngine{failPages: map[int]bool{2: true}}
	e := NewExtractor(Config{TempDir: t.TempDir()}, runner, engine, nil)

	text, err := e.Extract(context.Background(), "scan.pdf", "", nil)
	require.NoError(t, err, "one bad page must not fail the document")
	assert.Contains(t, text, "--- PAGE 1 ---")
	assert.NotContains(t, text, "--- PAGE 2 ---")
	assert.Contains(t, text, "--- PAGE 3 ---")
}

// noopRunner succeeds without producing any output files.
type noopRunner struct{}

func (noopRunner) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	return nil, nil, nil
}

func TestRasterizePageIgnoresStaleImages(t *testing.T) {
	dir := t.TempDir()
	// leftover from an earlier page whose pdftoppm died mid-run
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page1-1.png"), []byte("png"), 0o644))

	r := NewRasterizer(Config{Pdftoppm: "pdftoppm", Pdfinfo: "pdfinfo"}, noopRunner{})
	_, err := r.RasterizePage(context.Background(), "scan.pdf", 2, dir)
	require.Error(t, err, "page 2 must not pick up page 1's image")
	assert.ErrorIs(t, err, common.ErrRasterFailure)
}

// blockingEngine hangs until its context expires, like a stuck
// external process.
type blockingEngine struct {
	sawDeadline bool
}

func (e *blockingEngine) Recognize(ctx context.Context, _ string, _ ocr.ProgressFunc) (string, error) {
	_, e.sawDeadline = ctx.Deadline()
	<-ctx.Done()
	return "", ctx.Err()
}

func TestOCRTimeoutBoundsEachPage(t *testing.T) {
	runner := &fakeRunner{pdfText: "", pageCount: 2}
	engine := &blockingEngine{}
	e := NewExtractor(Config{TempDir: t.TempDir(), OCRTimeout: 10 * time.Millisecond}, runner, engine, nil)

	text, err := e.Extract(context.Background(), "scan.pdf", "", nil)
	require.NoError(t, err, "timed-out pages fail individually, not the document")
	assert.True(t, engine.sawDeadline, "recognition context must carry the deadline")
	assert.NotContains(t, text, "--- PAGE")
}

func TestExtractPDFThresholdBoundary(t *testing.T) {
	// exactly 100 trimmed chars is not enough for the fast path
	runner := &fakeRunner{pdfText: strings.Repeat("a", 100), pageCount: 1}
	engine := &fakeEngine{}
	e := NewExtractor(Config{TempDir: t.TempDir()}, runner, engine, nil)

	_, err := e.Extract(context.Background(), "scan.pdf", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, engine.calls)
}
