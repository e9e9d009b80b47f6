package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"

	"github.com/jjones1stptllc/titlegrab-desktop/constants"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
)

// extractWord pulls raw text out of a Word document, discarding all
// styling. Modern .docx is a zip of XML and is read natively; legacy
// .doc needs an external converter binary.
func (e *Extractor) extractWord(ctx context.Context, path string) (string, error) {
	if constants.NormalizeExt(filepath.Ext(path)) == "docx" {
		return e.extractDocx(path)
	}
	return e.extractLegacyDoc(ctx, path)
}

func (e *Extractor) extractDocx(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", common.NewAppError("READ", "open docx "+path, common.ErrReadFailure)
	}
	defer func() {
		_ = r.Close()
	}()

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", common.NewAppError("READ", "open docx document.xml", common.ErrReadFailure)
		}
		text, err := docxXMLToText(rc)
		_ = rc.Close()
		if err != nil {
			return "", common.NewAppError("READ", "parse docx document.xml", common.ErrReadFailure)
		}
		return text, nil
	}
	return "", common.NewAppError("READ", "docx has no word/document.xml", common.ErrReadFailure)
}

// docxXMLToText walks WordprocessingML, keeping text runs and turning
// paragraph and break elements into newlines.
func docxXMLToText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				b.WriteByte('\n')
			}
		case xml.StartElement:
			if t.Name.Local == "br" || t.Name.Local == "tab" {
				b.WriteByte(' ')
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func (e *Extractor) extractLegacyDoc(ctx context.Context, path string) (string, error) {
	if e.cfg.DocConverter == "" {
		return "", common.NewAppError("READ",
			"legacy .doc requires DOC_CONVERTER_BIN (e.g. antiword)", common.ErrReadFailure)
	}
	out, errb, err := e.runner.Run(ctx, e.cfg.DocConverter, path)
	if err != nil {
		e.logger.Error("extract.word.converter_failed",
			"path", path, "converter", e.cfg.DocConverter,
			"stderr", strings.TrimSpace(string(errb)), "error", err)
		return "", common.NewAppError("READ", "doc converter failed on "+path, common.ErrReadFailure)
	}
	return string(out), nil
}
