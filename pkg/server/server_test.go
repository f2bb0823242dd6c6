package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agri-tools/fruit-atlas/pkg/export"
	"github.com/agri-tools/fruit-atlas/pkg/export/csvenc"
	"github.com/agri-tools/fruit-atlas/pkg/models/api"
	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
)

type mockScanStore struct {
	mock.Mock
}

func (m *mockScanStore) AddRecords(ctx context.Context, records []domain.ScanRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *mockScanStore) GetRecords(
	ctx context.Context,
	category *domain.Category,
	since *time.Time,
) ([]domain.ScanRecord, error) {
	args := m.Called(ctx, category, since)
	return args.Get(0).([]domain.ScanRecord), args.Error(1)
}

func (m *mockScanStore) GetUsers(ctx context.Context) ([]domain.UserRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.UserRecord), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	scannedAt := time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC)
	yield := 35.0
	confidence := 0.91
	record := domain.ScanRecord{
		ID:                "scan-1",
		Category:          domain.CategoryYellow,
		OverallConfidence: &confidence,
		OilYieldPercent:   &yield,
		ScannedAt:         scannedAt,
	}

	tests := []struct {
		name           string
		body           api.GenerateReportRequest
		setupMocks     func(store *mockScanStore)
		expectedStatus int
		check          func(t *testing.T, resp *http.Response, body []byte)
	}{
		{
			name: "GenerateCategoryCSV",
			body: api.GenerateReportRequest{Scope: "category", Category: "YELLOW", Format: "csv"},
			setupMocks: func(store *mockScanStore) {
				store.On("GetRecords", mock.Anything, mock.Anything, mock.Anything).
					Return([]domain.ScanRecord{record}, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp *http.Response, body []byte) {
				assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
				assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
				assert.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}), "CSV payload should carry a UTF-8 BOM")
				assert.Contains(t, string(body), "Talisay Fruit Analysis Report")
				assert.Contains(t, string(body), "35.00%")
			},
		},
		{
			name: "GenerateOverallFetchesUsers",
			body: api.GenerateReportRequest{Scope: "overall", Format: "csv"},
			setupMocks: func(store *mockScanStore) {
				store.On("GetRecords", mock.Anything, (*domain.Category)(nil), mock.Anything).
					Return([]domain.ScanRecord{record}, nil)
				store.On("GetUsers", mock.Anything).
					Return([]domain.UserRecord{{Name: "Ana", Email: "ana@example.org"}}, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp *http.Response, body []byte) {
				assert.Contains(t, string(body), "Registered Users")
				assert.Contains(t, string(body), "ana@example.org")
			},
		},
		{
			name:           "UnsupportedFormat",
			body:           api.GenerateReportRequest{Scope: "overall", Format: "xlsx"},
			setupMocks:     func(store *mockScanStore) {},
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, resp *http.Response, body []byte) {
				var errResp api.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &errResp))
				assert.Contains(t, errResp.Error, "unsupported format")
			},
		},
		{
			name:           "CategoryScopeWithoutCategory",
			body:           api.GenerateReportRequest{Scope: "category", Format: "csv"},
			setupMocks:     func(store *mockScanStore) {},
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, resp *http.Response, body []byte) {
				var errResp api.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &errResp))
				assert.NotEmpty(t, errResp.Error)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := new(mockScanStore)
			tc.setupMocks(store)

			config := Config{
				Addr:            ":8080",
				ShutdownTimeout: 10 * time.Second,
				Dependencies: Dependencies{
					Store:    store,
					Exporter: export.NewService(csvenc.NewEncoder()),
					Logger:   logger,
				},
			}
			router := ConfigureRouter(config)
			testServer := httptest.NewServer(router)
			defer testServer.Close()

			payload, err := json.Marshal(tc.body)
			require.NoError(t, err, "Failed to marshal request body")

			resp, err := http.Post(testServer.URL+"/api/v1/reports", "application/json", bytes.NewReader(payload))
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			tc.check(t, resp, body)
			store.AssertExpectations(t)
		})
	}
}
