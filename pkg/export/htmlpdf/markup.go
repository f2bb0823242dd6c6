// Package htmlpdf renders report documents as self-contained markup and
// delegates pagination to an external HTML-to-PDF conversion service.
// It backs deployments without a vector drawing library.
package htmlpdf

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"github.com/agri-tools/fruit-atlas/pkg/export/assets"
	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
)

// The style block is inlined so the conversion step can run offline; no
// external fetches are allowed in the generated markup.
const markupTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Doc.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 11px; color: #1a1a1a; margin: 24px; }
.header { text-align: center; border-bottom: 2px solid #3c3c3c; padding-bottom: 12px; margin-bottom: 18px; }
.header img { height: 64px; }
.header .inst-primary { font-size: 16px; font-weight: bold; }
.header .inst-secondary { font-size: 13px; }
.header .inst-tertiary { font-size: 11px; }
.header .doc-title { font-size: 14px; font-weight: bold; margin-top: 8px; }
h2 { font-size: 13px; margin: 18px 0 6px 0; }
p.summary { line-height: 1.5; }
table { border-collapse: collapse; width: 100%; margin-bottom: 12px; }
th { background: #3c5a3c; color: #ffffff; padding: 5px 7px; text-align: left; }
td { border: 1px solid #b4b4b4; padding: 4px 7px; }
tr:nth-child(even) td { background: #f0f3f0; }
td.kv-label { font-weight: bold; width: 38%; }
tr, table thead { page-break-inside: avoid; }
.footer { margin-top: 24px; border-top: 1px solid #b4b4b4; padding-top: 6px; font-size: 9px; color: #787878; display: flex; justify-content: space-between; }
</style>
</head>
<body>
<div class="header">
{{if .LogoDataURI}}<img src="{{.LogoDataURI}}" alt="logo">{{end}}
{{range $i, $line := .HeaderLines}}<div class="{{headerClass $i}}">{{$line}}</div>
{{end}}<div class="doc-title">{{.Doc.Title}} &mdash; {{.Doc.Subtitle}}</div>
</div>
{{range .Doc.Sections}}{{if eq .Kind "summaryText"}}<p class="summary">{{.Text}}</p>
{{else if eq .Kind "keyValueTable"}}<h2>{{.Title}}</h2>
<table><tbody>
{{range .Rows}}<tr><td class="kv-label">{{index . 0}}</td><td>{{index . 1}}</td></tr>
{{end}}</tbody></table>
{{else if eq .Kind "dataGrid"}}<h2>{{.Title}}</h2>
<table><thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .GridRows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody></table>
{{end}}{{end}}
<div class="footer">
<span>{{.FooterLabel}}</span>
<span>Generated {{.Doc.GeneratedAt.Format "2006-01-02 15:04"}}</span>
</div>
</body>
</html>
`

var headerClasses = []string{"inst-primary", "inst-secondary", "inst-tertiary"}

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"headerClass": func(i int) string {
		if i < len(headerClasses) {
			return headerClasses[i]
		}
		return headerClasses[len(headerClasses)-1]
	},
}).Parse(markupTemplate))

type markupContext struct {
	Doc         *domain.Document
	HeaderLines []string
	FooterLabel string
	LogoDataURI template.URL
}

// RenderMarkup emits the document as a single self-contained HTML
// string. html/template escapes all field values, so no sanitization
// pass is needed on this backend.
func RenderMarkup(doc *domain.Document, headerLines []string, footerLabel string, logo *assets.Image) (string, error) {
	ctx := markupContext{
		Doc:         doc,
		HeaderLines: headerLines,
		FooterLabel: footerLabel,
	}
	if logo != nil {
		mime := "image/png"
		if logo.Format == "JPG" {
			mime = "image/jpeg"
		}
		ctx.LogoDataURI = template.URL(fmt.Sprintf("data:%s;base64,%s",
			mime, base64.StdEncoding.EncodeToString(logo.Data)))
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, ctx); err != nil {
		return "", fmt.Errorf("render report markup: %w", err)
	}
	return sb.String(), nil
}
