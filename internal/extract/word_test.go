package extract

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocx(t *testing.T, dir, documentXML string) string {
	t.Helper()
	path := filepath.Join(dir, "abstract.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func TestExtractDocx(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Deed Book 123</w:t></w:r></w:p>
    <w:p><w:r><w:t>Grantor: John Smith</w:t></w:r></w:p>
  </w:body>
</w:document>`
	path := writeDocx(t, t.TempDir(), doc)

	e := NewExtractor(Config{}, &fakeRunner{}, &fakeEngine{}, nil)
	text, err := e.Extract(context.Background(), path, "", nil)
	require.NoError(t, err)

	assert.Contains(t, text, "Deed Book 123")
	assert.Contains(t, text, "Grantor: John Smith")
	assert.NotContains(t, text, "<w:")
}

func TestExtractLegacyDocWithoutConverter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abstract.doc")
	require.NoError(t, os.WriteFile(path, []byte("legacy"), 0o644))

	e := NewExtractor(Config{}, &fakeRunner{}, &fakeEngine{}, nil)
	_, err := e.Extract(context.Background(), path, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DOC_CONVERTER_BIN")
}
