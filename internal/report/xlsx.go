// Package report renders an ExtractedDocument as an XLSX workbook.
package report

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jjones1stptllc/titlegrab-desktop/internal/llm"
)

// Service produces title-report workbooks.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// BuildXLSX returns the workbook bytes for one extracted document:
// a summary sheet plus one sheet per record category.
func (s *Service) BuildXLSX(doc *llm.ExtractedDocument, filename string) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()

	if err := s.writeSummary(f, doc, filename); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Deeds",
		[]string{"Grantor", "Grantee", "Consideration", "Note Date", "File Number", "Recording Date", "Book/Page"},
		len(doc.Deeds), func(i int) []any {
			d := doc.Deeds[i]
			return []any{d.Grantor, d.Grantee, d.Consideration, d.NoteDate, d.FileNumber, d.RecordingDate, d.BookPage}
		}); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Deeds of Trust",
		[]string{"Grantor", "Amount", "Lender", "Status", "Trustee", "Maturity Date", "Note Date", "File Number", "Recording Date", "Book/Pages"},
		len(doc.DeedsOfTrust), func(i int) []any {
			d := doc.DeedsOfTrust[i]
			return []any{d.Grantor, d.Amount, d.Lender, d.Status, d.Trustee, d.MaturityDate, d.NoteDate, d.FileNumber, d.RecordingDate, d.BookPages}
		}); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Judgments",
		[]string{"Plaintiff", "Defendant", "Amount", "Judgment Date", "File Number", "Recording Date", "Book/Page"},
		len(doc.Judgments), func(i int) []any {
			j := doc.Judgments[i]
			return []any{j.Plaintiff, j.Defendant, j.Amount, j.JudgmentDate, j.FileNumber, j.RecordingDate, j.BookPage}
		}); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Liens",
		[]string{"Type", "Creditor", "Amount", "Status", "File Number", "Recording Date"},
		len(doc.Liens), func(i int) []any {
			l := doc.Liens[i]
			return []any{l.Type, l.Creditor, l.Amount, l.Status, l.FileNumber, l.RecordingDate}
		}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("report.xlsx.ok",
		"filename", filename,
		"records", doc.RecordCount(),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func (s *Service) writeSummary(f *excelize.File, doc *llm.ExtractedDocument, filename string) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Title Search Report"},
		{"Source Document", filename},
		{"Generated", time.Now().UTC().Format("2006-01-02 15:04 MST")},
		{"Confidence", doc.Confidence},
		{},
		{"Property Address", doc.PropertyInfo.Address},
		{"Parcel Number", doc.PropertyInfo.ParcelNumber},
		{"Legal Description", doc.PropertyInfo.LegalDescription},
		{},
		{"Deeds", len(doc.Deeds)},
		{"Deeds of Trust", len(doc.DeedsOfTrust)},
		{"Judgments", len(doc.Judgments)},
		{"Liens", len(doc.Liens)},
		{},
		{"Names Searched", strings.Join(doc.NamesSearched, "; ")},
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSheet(f *excelize.File, name string, headers []string, n int, row func(i int) []any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	h := make([]any, len(headers))
	for i, v := range headers {
		h[i] = v
	}
	if err := f.SetSheetRow(name, "A1", &h); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := row(i)
		if err := f.SetSheetRow(name, cell, &r); err != nil {
			return err
		}
	}
	return nil
}
