package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
)

type TableConfig struct {
	KeyWidth   int
	ValueWidth int
	GridWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		KeyWidth:   36,
		ValueWidth: 44,
		GridWidth:  14,
	}
}

// Reporter renders a document as plain text tables for terminal preview.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(doc *domain.Document) error {
	funcMap := template.FuncMap{
		"kvRow": func(row [2]string) string {
			return fmt.Sprintf("| %-*s | %-*s |",
				c.config.KeyWidth, row[0],
				c.config.ValueWidth, row[1])
		},
		"kvSeparator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.KeyWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
		"gridRow": func(cells []string) string {
			var b strings.Builder
			for _, cell := range cells {
				if len(cell) > c.config.GridWidth {
					cell = cell[:c.config.GridWidth-1] + "…"
				}
				fmt.Fprintf(&b, "| %-*s ", c.config.GridWidth, cell)
			}
			b.WriteString("|")
			return b.String()
		},
		"gridSeparator": func(headers []string) string {
			var b strings.Builder
			for range headers {
				b.WriteString("+")
				b.WriteString(strings.Repeat("-", c.config.GridWidth+2))
			}
			b.WriteString("+")
			return b.String()
		},
	}

	tmpl := `
{{.Title}}
{{.Subtitle}}
Generated: {{.GeneratedAt.Format "2006-01-02 15:04"}}
{{range .Sections}}
{{- if .Title}}
=== {{.Title}} ===
{{end}}
{{- if eq .Kind "summaryText"}}{{.Text}}
{{else if eq .Kind "keyValueTable"}}{{kvSeparator}}
{{range .Rows}}{{kvRow .}}
{{end}}{{kvSeparator}}
{{else}}{{gridSeparator .Headers}}
{{gridRow .Headers}}
{{gridSeparator .Headers}}
{{range .GridRows}}{{gridRow .}}
{{end}}{{gridSeparator .Headers}}
{{end}}{{end}}
`

	t, err := template.New("document").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, doc)
}
