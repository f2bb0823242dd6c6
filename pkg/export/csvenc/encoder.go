// Package csvenc flattens a report document into delimited text.
package csvenc

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/agri-tools/fruit-atlas/pkg/export"
	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
)

// Encoder renders documents as RFC 4180 CSV. The output carries no BOM;
// prepending one for spreadsheet tools is the delivery layer's concern.
type Encoder struct{}

func NewEncoder() *Encoder { return &Encoder{} }

func (e *Encoder) Format() export.Format { return export.FormatCSV }

func (e *Encoder) Render(_ context.Context, doc *domain.Document) ([]byte, error) {
	s, err := Encode(doc)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Encode walks the document and emits one titled block per section.
// Key/value tables become two-column rows; data grids a header row
// followed by data rows. Quoting is left to encoding/csv.
func Encode(doc *domain.Document) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	rows := [][]string{
		{doc.Title},
		{doc.Subtitle},
		{"Generated", doc.GeneratedAt.Format("2006-01-02 15:04")},
		{},
	}

	for _, section := range doc.Sections {
		switch section.Kind {
		case domain.KindSummaryText:
			rows = append(rows, []string{"Summary"}, []string{section.Text})
		case domain.KindKeyValueTable:
			rows = append(rows, []string{section.Title})
			for _, kv := range section.Rows {
				rows = append(rows, []string{kv[0], kv[1]})
			}
		case domain.KindDataGrid:
			rows = append(rows, []string{section.Title}, section.Headers)
			rows = append(rows, section.GridRows...)
		}
		rows = append(rows, []string{})
	}

	for _, row := range rows {
		if len(row) == 0 {
			// encoding/csv refuses zero-field records; a single empty
			// field still reads back as a blank separator line.
			row = []string{""}
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}
