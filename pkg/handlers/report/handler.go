package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agri-tools/fruit-atlas/pkg/export"
	"github.com/agri-tools/fruit-atlas/pkg/models/api"
	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
	"github.com/agri-tools/fruit-atlas/pkg/services/analytics"
	reportsvc "github.com/agri-tools/fruit-atlas/pkg/services/report"
	"github.com/agri-tools/fruit-atlas/pkg/store/scanlog"
)

// utf8BOM is prepended to CSV payloads at the delivery boundary so
// spreadsheet tools pick up the encoding; the encoder itself stays
// BOM-free.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Handler struct {
	store    scanlog.Store
	exporter *export.Service
}

func NewHandler(store scanlog.Store, exporter *export.Service) *Handler {
	return &Handler{store: store, exporter: exporter}
}

// Generate builds and encodes a report in one request.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var body api.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	format := export.Format(body.Format)
	if !format.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported format %q", body.Format))
		return
	}

	req, err := h.assembleRequest(r, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	doc, err := reportsvc.BuildDocument(*req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	payload, err := h.exporter.Export(ctx, doc, format)
	if err != nil {
		logger.Error().Err(err).Str("format", string(format)).Msg("report export failed")
		var exportErr *export.Error
		if errors.As(err, &exportErr) && exportErr.Stage == "convert" {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	data := payload.Bytes
	if format == export.FormatCSV {
		data = append(append([]byte{}, utf8BOM...), data...)
	}

	w.Header().Set("Content-Type", payload.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filename(*req, format)))
	if _, err := w.Write(data); err != nil {
		logger.Error().Err(err).Msg("failed to write report payload")
	}
}

func (h *Handler) assembleRequest(r *http.Request, body api.GenerateReportRequest) (*domain.ReportRequest, error) {
	ctx := r.Context()

	req := domain.ReportRequest{
		Scope:    domain.ReportScope(body.Scope),
		Category: domain.Category(body.Category),
	}
	// Reject a bad scope/category pair before any store round trip.
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var since *time.Time
	if body.Days > 0 {
		t := time.Now().AddDate(0, 0, -body.Days)
		since = &t
	}

	// The full record set feeds both the analytics snapshot and the
	// per-record grids; category filtering happens in the builder.
	records, err := h.store.GetRecords(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("fetch scan records: %w", err)
	}
	req.Records = records
	req.Analytics = analytics.Aggregate(records)

	if req.Scope == domain.ScopeOverall {
		users, err := h.store.GetUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch users: %w", err)
		}
		req.Users = users
	}

	return &req, nil
}

func filename(req domain.ReportRequest, format export.Format) string {
	stamp := time.Now().Format("20060102")
	if req.Scope == domain.ScopeCategory {
		return fmt.Sprintf("fruit-report-%s-%s.%s", stamp, req.Category, format)
	}
	return fmt.Sprintf("fruit-report-%s-overall.%s", stamp, format)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: err.Error()})
}
