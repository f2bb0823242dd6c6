package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	format Format
	data   []byte
	err    error
}

func (s *stubRenderer) Format() Format { return s.format }
func (s *stubRenderer) Render(_ context.Context, _ *domain.Document) ([]byte, error) {
	return s.data, s.err
}

func validDoc() *domain.Document {
	doc := &domain.Document{
		Title:       "Talisay Fruit Analysis Report",
		Subtitle:    "System-Wide Summary",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	doc.Append(domain.SummarySection("ok"))
	return doc
}

func TestService_RoutesToRegisteredRenderer(t *testing.T) {
	// Given
	svc := NewService(
		&stubRenderer{format: FormatCSV, data: []byte("csv-bytes")},
		&stubRenderer{format: FormatPDF, data: []byte("%PDF-")},
	)

	// When
	payload, err := svc.Export(context.Background(), validDoc(), FormatPDF)

	// Then
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-"), payload.Bytes)
	assert.Equal(t, "application/pdf", payload.ContentType)
}

func TestService_UnknownFormat_TypedError(t *testing.T) {
	// Given
	svc := NewService(&stubRenderer{format: FormatCSV})

	// When
	_, err := svc.Export(context.Background(), validDoc(), FormatPDF)

	// Then
	var exportErr *Error
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, "select", exportErr.Stage)
}

func TestService_MalformedDocument_FailsValidation(t *testing.T) {
	// Given: a data grid row with the wrong cell count is a section
	// builder bug and must fail loudly before any renderer runs.
	doc := validDoc()
	doc.Append(domain.DataGridSection("Broken", []string{"a", "b"}, [][]string{{"only-one"}}))
	svc := NewService(&stubRenderer{format: FormatCSV, data: []byte("x")})

	// When
	_, err := svc.Export(context.Background(), doc, FormatCSV)

	// Then
	var exportErr *Error
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, "validate", exportErr.Stage)
}

func TestService_RendererError_IsWrappedOnce(t *testing.T) {
	// Given
	inner := &Error{Format: FormatPDF, Stage: "convert", Err: errors.New("boom")}
	svc := NewService(&stubRenderer{format: FormatPDF, err: inner})

	// When
	_, err := svc.Export(context.Background(), validDoc(), FormatPDF)

	// Then: already-typed errors pass through unwrapped.
	var exportErr *Error
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, "convert", exportErr.Stage)
}

func TestFormat_MIME(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.MIME())
	assert.Equal(t, "application/pdf", FormatPDF.MIME())
}
