package htmlpdf

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agri-tools/fruit-atlas/pkg/export"
	"github.com/agri-tools/fruit-atlas/pkg/export/assets"
	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
)

var testHeader = []string{"Talisay Oil Research Program", "Institute of Plant Science", "Annual Analytics Report"}

func markupDoc() *domain.Document {
	doc := &domain.Document{
		Title:       "Talisay Fruit Analysis Report",
		Subtitle:    "Green (Immature) Maturity Stage",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	doc.Append(domain.SummarySection("One scan analyzed."))
	doc.Append(domain.KeyValueSection("Oil Yield Statistics", [][2]string{
		{"System Average Oil Yield", "35.00%"},
	}))
	doc.Append(domain.DataGridSection("Scan Records",
		[]string{"Date", "User"},
		[][]string{{"2026-03-01 09:00", "Ana <ana@example.org>"}}))
	return doc
}

func TestRenderMarkup_ContainsAllSections(t *testing.T) {
	// When
	out, err := RenderMarkup(markupDoc(), testHeader, "Fruit Atlas Report", nil)

	// Then
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Talisay Fruit Analysis Report</title>")
	assert.Contains(t, out, "Talisay Oil Research Program")
	assert.Contains(t, out, "One scan analyzed.")
	assert.Contains(t, out, "<h2>Oil Yield Statistics</h2>")
	assert.Contains(t, out, "<td>35.00%</td>")
	assert.Contains(t, out, "<th>Date</th>")
}

func TestRenderMarkup_EscapesUserText(t *testing.T) {
	// When
	out, err := RenderMarkup(markupDoc(), testHeader, "Fruit Atlas Report", nil)

	// Then
	require.NoError(t, err)
	assert.NotContains(t, out, "Ana <ana@example.org>")
	assert.Contains(t, out, "Ana &lt;ana@example.org&gt;")
}

func TestRenderMarkup_IsSelfContained(t *testing.T) {
	// Given: a logo so the only image is the inline data URI.
	logo := &assets.Image{Data: []byte{0x89, 'P', 'N', 'G'}, Format: "PNG"}

	// When
	out, err := RenderMarkup(markupDoc(), testHeader, "Fruit Atlas Report", logo)

	// Then
	require.NoError(t, err)
	assert.Contains(t, out, `src="data:image/png;base64,`)
	assert.NotContains(t, out, "http://")
	assert.NotContains(t, out, "https://")
	assert.Contains(t, out, "<style>")
}

func TestRenderer_ConversionSuccess(t *testing.T) {
	// Given
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/html; charset=utf-8", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	r := NewRenderer(Options{ConverterURL: srv.URL, HeaderLines: testHeader, FooterLabel: "Fruit Atlas Report"}, nil, zerolog.Nop())

	// When
	data, err := r.Render(context.Background(), markupDoc())

	// Then
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestRenderer_ServiceError_ReturnsTypedExportError(t *testing.T) {
	// Given
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "renderer pool exhausted", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := NewRenderer(Options{ConverterURL: srv.URL}, nil, zerolog.Nop())

	// When
	_, err := r.Render(context.Background(), markupDoc())

	// Then
	var exportErr *export.Error
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, "convert", exportErr.Stage)
	assert.Equal(t, export.FormatPDF, exportErr.Format)
}

func TestRenderer_Timeout_ReturnsTypedExportError(t *testing.T) {
	// Given: a conversion service that never answers in time.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	r := NewRenderer(Options{ConverterURL: srv.URL, Timeout: 20 * time.Millisecond}, nil, zerolog.Nop())

	// When
	_, err := r.Render(context.Background(), markupDoc())

	// Then
	var exportErr *export.Error
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, "convert", exportErr.Stage)
}

func TestRenderer_EmptyResponse_IsAFailure(t *testing.T) {
	// Given
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRenderer(Options{ConverterURL: srv.URL}, nil, zerolog.Nop())

	// When
	_, err := r.Render(context.Background(), markupDoc())

	// Then
	var exportErr *export.Error
	require.True(t, errors.As(err, &exportErr))
}
