package htmlpdf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agri-tools/fruit-atlas/pkg/export"
	"github.com/agri-tools/fruit-atlas/pkg/export/assets"
	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
)

const defaultConvertTimeout = 30 * time.Second

// maxPDFSize bounds the conversion response we are willing to buffer.
const maxPDFSize = 64 << 20

// Options configures the fallback renderer.
type Options struct {
	// ConverterURL is the HTML-to-PDF conversion endpoint. The service
	// receives the markup as text/html and answers with application/pdf.
	ConverterURL string
	HeaderLines  []string
	FooterLabel  string
	Timeout      time.Duration
}

// Renderer converts documents to PDF via the external conversion
// service. Unlike asset or drawing trouble, a conversion failure is not
// recoverable here and propagates as a typed export error.
type Renderer struct {
	opts   Options
	cache  *assets.Cache
	client *http.Client
	logger zerolog.Logger
}

func NewRenderer(opts Options, cache *assets.Cache, logger zerolog.Logger) *Renderer {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultConvertTimeout
	}
	return &Renderer{
		opts:   opts,
		cache:  cache,
		client: &http.Client{},
		logger: logger,
	}
}

func (r *Renderer) Format() export.Format { return export.FormatPDF }

func (r *Renderer) Render(ctx context.Context, doc *domain.Document) ([]byte, error) {
	var logo *assets.Image
	if r.cache != nil {
		logo = r.cache.Logo()
	}

	markup, err := RenderMarkup(doc, r.opts.HeaderLines, r.opts.FooterLabel, logo)
	if err != nil {
		return nil, &export.Error{Format: export.FormatPDF, Stage: "markup", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.opts.ConverterURL, strings.NewReader(markup))
	if err != nil {
		return nil, &export.Error{Format: export.FormatPDF, Stage: "convert", Err: err}
	}
	req.Header.Set("Content-Type", "text/html; charset=utf-8")
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &export.Error{Format: export.FormatPDF, Stage: "convert", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &export.Error{
			Format: export.FormatPDF,
			Stage:  "convert",
			Err:    fmt.Errorf("conversion service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFSize))
	if err != nil {
		return nil, &export.Error{Format: export.FormatPDF, Stage: "convert", Err: err}
	}
	if len(data) == 0 {
		return nil, &export.Error{Format: export.FormatPDF, Stage: "convert", Err: fmt.Errorf("conversion service returned an empty document")}
	}

	r.logger.Debug().Int("bytes", len(data)).Msg("conversion service returned document")
	return data, nil
}
