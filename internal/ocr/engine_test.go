package ocr

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
)

type recordingRunner struct {
	stdout []byte
	err    error

	name string
	args []string
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.name = name
	r.args = args
	return r.stdout, nil, r.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRecognizeBuildsDefaultArgs(t *testing.T) {
	runner := &recordingRunner{stdout: []byte("DEED OF TRUST\n")}
	engine := NewTesseractEngine(Config{}, runner, quietLogger())

	text, err := engine.Recognize(context.Background(), "page-1.png", nil)
	require.NoError(t, err)
	assert.Equal(t, "DEED OF TRUST\n", text)
	assert.Equal(t, "tesseract", runner.name)
	assert.Equal(t, []string{"page-1.png", "stdout", "-l", "eng"}, runner.args)
}

func TestRecognizeHonorsConfig(t *testing.T) {
	runner := &recordingRunner{stdout: []byte("ok")}
	engine := NewTesseractEngine(Config{
		Tesseract:   "/opt/bin/tesseract",
		Lang:        "eng+spa",
		TessdataDir: "/opt/tessdata",
		PSM:         6,
	}, runner, quietLogger())

	_, err := engine.Recognize(context.Background(), "scan.png", nil)
	require.NoError(t, err)
	assert.Equal(t, "/opt/bin/tesseract", runner.name)
	assert.Equal(t, []string{
		"scan.png", "stdout", "-l", "eng+spa",
		"--tessdata-dir", "/opt/tessdata", "--psm", "6",
	}, runner.args)
}

func TestRecognizeReportsProgressBounds(t *testing.T) {
	engine := NewTesseractEngine(Config{}, &recordingRunner{stdout: []byte("x")}, quietLogger())

	var fractions []float64
	_, err := engine.Recognize(context.Background(), "p.png", func(f float64) {
		fractions = append(fractions, f)
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, fractions)
}

func TestRecognizeFailureWrapsSentinel(t *testing.T) {
	runner := &recordingRunner{err: errors.New("exit status 1")}
	engine := NewTesseractEngine(Config{}, runner, quietLogger())

	_, err := engine.Recognize(context.Background(), "p.png", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrOCRFailure))
}
