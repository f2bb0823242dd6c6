package scanlog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
)

var scanColumns = []string{
	"id", "category", "overall_confidence", "color_confidence", "oil_confidence",
	"detection_confidence", "oil_yield_percent", "length_cm", "width_cm",
	"kernel_mass_g", "whole_fruit_weight_g", "has_spots", "coin_detected",
	"scanned_at", "user_name", "user_email",
}

func setupMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, Store) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db)
	require.NoError(t, err)
	return db, mock, s
}

func TestNewStore_NilDB_ShouldError(t *testing.T) {
	_, err := NewStore(nil)
	require.Error(t, err)
}

func TestGetRecords_NoFilter_ReturnsChronologicalRows(t *testing.T) {
	// Given
	_, mock, s := setupMock(t)
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM scan_records ORDER BY scanned_at ASC").
		WillReturnRows(sqlmock.NewRows(scanColumns).
			AddRow("scan-1", "GREEN", 0.91, 0.88, nil, nil, 32.5, 5.1, 3.2, nil, nil, false, true, ts, "Ana", "ana@example.org").
			AddRow("scan-2", "YELLOW", nil, nil, nil, nil, nil, nil, nil, nil, nil, true, false, ts.Add(time.Hour), "Ben", "ben@example.org"))

	// When
	records, err := s.GetRecords(context.Background(), nil, nil)

	// Then
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.CategoryGreen, records[0].Category)
	require.NotNil(t, records[0].OilYieldPercent)
	assert.InDelta(t, 32.5, *records[0].OilYieldPercent, 0.001)
	assert.Nil(t, records[1].OilYieldPercent)
	assert.True(t, records[1].HasSpots)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecords_CategoryFilter_BindsArgument(t *testing.T) {
	// Given
	_, mock, s := setupMock(t)
	mock.ExpectQuery("SELECT (.+) FROM scan_records WHERE category = \\? ORDER BY scanned_at ASC").
		WithArgs("GREEN").
		WillReturnRows(sqlmock.NewRows(scanColumns))

	cat := domain.CategoryGreen

	// When
	records, err := s.GetRecords(context.Background(), &cat, nil)

	// Then
	require.NoError(t, err)
	assert.Empty(t, records)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRecords_InsertsEachRecord(t *testing.T) {
	// Given
	_, mock, s := setupMock(t)
	mock.ExpectPrepare("INSERT INTO scan_records")
	mock.ExpectExec("INSERT INTO scan_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	yield := 35.0
	records := []domain.ScanRecord{{
		ID:              "scan-9",
		Category:        domain.CategoryGreen,
		OilYieldPercent: &yield,
		ScannedAt:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		UserName:        "Ana",
		UserEmail:       "ana@example.org",
	}}

	// When
	err := s.AddRecords(context.Background(), records)

	// Then
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRecords_EmptySlice_IsANoop(t *testing.T) {
	// Given
	_, mock, s := setupMock(t)

	// When
	err := s.AddRecords(context.Background(), nil)

	// Then
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUsers_MapsNullableColumns(t *testing.T) {
	// Given
	_, mock, s := setupMock(t)
	joined := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT name, email, role, joined_at FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"name", "email", "role", "joined_at"}).
			AddRow("Ana", "ana@example.org", "researcher", joined).
			AddRow("Ben", "ben@example.org", nil, nil))

	// When
	users, err := s.GetUsers(context.Background())

	// Then
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "researcher", users[0].Role)
	require.NotNil(t, users[0].JoinedAt)
	assert.Nil(t, users[1].JoinedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
