package csvenc

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() *domain.Document {
	doc := &domain.Document{
		Title:       "Talisay Fruit Analysis Report",
		Subtitle:    "Green (Immature) Maturity Stage",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	doc.Append(domain.SummarySection("Two scans analyzed."))
	doc.Append(domain.KeyValueSection("Oil Yield Statistics", [][2]string{
		{"Scans Analyzed", "2"},
		{"System Average Oil Yield", "35.00%"},
	}))
	doc.Append(domain.DataGridSection("Scan Records",
		[]string{"Date", "Oil Yield"},
		[][]string{
			{"2026-03-01 09:00", "30.00%"},
			{"2026-03-01 10:00", "40.00%"},
		}))
	return doc
}

func TestEncode_FieldEscaping_ExactBytes(t *testing.T) {
	// Given
	doc := &domain.Document{
		Title:       "T",
		Subtitle:    "S",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	doc.Append(domain.KeyValueSection("Block", [][2]string{
		{"field", "a,b\"c\nd"},
	}))

	// When
	out, err := Encode(doc)

	// Then
	require.NoError(t, err)
	assert.Contains(t, out, "field,\"a,b\"\"c\nd\"\n")
}

func TestEncode_RoundTrip_PreservesRowsAndBoundaries(t *testing.T) {
	// Given
	doc := sampleDoc()

	// When
	out, err := Encode(doc)
	require.NoError(t, err)

	r := csv.NewReader(strings.NewReader(out))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()

	// Then
	require.NoError(t, err)

	var flat [][]string
	for _, rec := range records {
		flat = append(flat, rec)
	}
	assert.Equal(t, []string{"Talisay Fruit Analysis Report"}, flat[0])
	assert.Equal(t, []string{"Green (Immature) Maturity Stage"}, flat[1])

	// Section boundaries survive as blank separator rows.
	assert.Contains(t, flat, []string{"Oil Yield Statistics"})
	assert.Contains(t, flat, []string{"Scans Analyzed", "2"})
	assert.Contains(t, flat, []string{"Scan Records"})
	assert.Contains(t, flat, []string{"Date", "Oil Yield"})
	assert.Contains(t, flat, []string{"2026-03-01 09:00", "30.00%"})
	assert.Contains(t, flat, []string{"2026-03-01 10:00", "40.00%"})
}

func TestEncode_GridRows_KeepInputOrder(t *testing.T) {
	// Given
	doc := sampleDoc()

	// When
	out, err := Encode(doc)

	// Then
	require.NoError(t, err)
	first := strings.Index(out, "2026-03-01 09:00")
	second := strings.Index(out, "2026-03-01 10:00")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
}

func TestEncoder_ImplementsRenderer(t *testing.T) {
	// Given
	enc := NewEncoder()

	// When
	data, err := enc.Render(context.Background(), sampleDoc())

	// Then
	require.NoError(t, err)
	assert.Equal(t, "csv", string(enc.Format()))
	assert.True(t, strings.HasPrefix(string(data), "Talisay Fruit Analysis Report"))
}
