// Package export defines the rendering seam of the report engine: one
// document model in, one encoded payload out, with the backend chosen
// per request.
package export

import (
	"context"
	"fmt"

	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
)

// Format identifies an output encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// MIME returns the content type for the encoded payload.
func (f Format) MIME() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Valid reports whether f names a supported output format.
func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatPDF
}

// Error is the typed export failure surfaced to callers. Asset and
// drawing trouble degrades in place and never becomes an Error; only a
// terminal failure (conversion service, encoder) does.
type Error struct {
	Format Format
	Stage  string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export %s failed at %s: %v", e.Format, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Renderer encodes a validated document into one output format.
type Renderer interface {
	Format() Format
	Render(ctx context.Context, doc *domain.Document) ([]byte, error)
}

// Payload is the finished export, ready for the delivery collaborator
// (file writer, HTTP response, share sheet bridge).
type Payload struct {
	Bytes       []byte
	ContentType string
}

// Service routes documents to the renderer registered for the requested
// format. Renderer selection happens at wiring time: deployments with a
// vector drawing backend register the paginator, the rest register the
// markup fallback.
type Service struct {
	renderers map[Format]Renderer
}

func NewService(renderers ...Renderer) *Service {
	m := make(map[Format]Renderer, len(renderers))
	for _, r := range renderers {
		m[r.Format()] = r
	}
	return &Service{renderers: m}
}

// Export validates the document and renders it in the requested format.
func (s *Service) Export(ctx context.Context, doc *domain.Document, format Format) (*Payload, error) {
	if err := doc.Validate(); err != nil {
		return nil, &Error{Format: format, Stage: "validate", Err: err}
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, &Error{Format: format, Stage: "select", Err: fmt.Errorf("no renderer registered")}
	}
	data, err := r.Render(ctx, doc)
	if err != nil {
		if _, ok := err.(*Error); ok {
			return nil, err
		}
		return nil, &Error{Format: format, Stage: "render", Err: err}
	}
	return &Payload{Bytes: data, ContentType: format.MIME()}, nil
}
