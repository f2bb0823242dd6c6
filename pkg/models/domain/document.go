package domain

import (
	"fmt"
	"time"
)

// SectionKind discriminates the content carried by a Section.
type SectionKind string

const (
	KindSummaryText   SectionKind = "summaryText"
	KindKeyValueTable SectionKind = "keyValueTable"
	KindDataGrid      SectionKind = "dataGrid"
)

// Section is one titled block of a report. Exactly the fields implied by
// Kind are populated; renderers must not depend on anything else.
type Section struct {
	Kind  SectionKind
	Title string

	// KindSummaryText
	Text string

	// KindKeyValueTable
	Rows [][2]string

	// KindDataGrid
	Headers  []string
	GridRows [][]string
}

// SummarySection builds a paragraph section.
func SummarySection(text string) Section {
	return Section{Kind: KindSummaryText, Text: text}
}

// KeyValueSection builds a two-column label/value table.
func KeyValueSection(title string, rows [][2]string) Section {
	return Section{Kind: KindKeyValueTable, Title: title, Rows: rows}
}

// DataGridSection builds a tabular grid with a header row.
func DataGridSection(title string, headers []string, rows [][]string) Section {
	return Section{Kind: KindDataGrid, Title: title, Headers: headers, GridRows: rows}
}

// Document is the backend-agnostic representation of a report. It is
// built once by the section builder and then treated as immutable; the
// CSV and PDF encoders only ever read it.
type Document struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Sections    []Section
}

// Append adds a section to the document during construction.
func (d *Document) Append(s Section) {
	d.Sections = append(d.Sections, s)
}

// Validate checks structural invariants the renderers rely on. A
// violation is a bug in the section builder, so callers should treat a
// non-nil error as fatal for the export, not as user input trouble.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("document is nil")
	}
	if d.Title == "" {
		return fmt.Errorf("document has no title")
	}
	for i, s := range d.Sections {
		switch s.Kind {
		case KindSummaryText:
			if s.Text == "" {
				return fmt.Errorf("section %d: empty summary text", i)
			}
		case KindKeyValueTable:
			if s.Title == "" {
				return fmt.Errorf("section %d: key/value table has no title", i)
			}
		case KindDataGrid:
			if s.Title == "" {
				return fmt.Errorf("section %d: data grid has no title", i)
			}
			if len(s.Headers) == 0 {
				return fmt.Errorf("section %d (%s): data grid has no headers", i, s.Title)
			}
			for j, row := range s.GridRows {
				if len(row) != len(s.Headers) {
					return fmt.Errorf("section %d (%s): row %d has %d cells, expected %d",
						i, s.Title, j, len(row), len(s.Headers))
				}
			}
		default:
			return fmt.Errorf("section %d: unknown kind %q", i, s.Kind)
		}
	}
	return nil
}
