package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/export"
	"github.com/swimschool/billing/internal/metrics"
	"github.com/swimschool/billing/internal/service"
	"go.uber.org/zap"
)

// ReportService определяет методы сводок и выгрузок
type ReportService interface {
	ProductSummary(ctx context.Context, productID int64) (domain.Summary, error)
	SeasonSummary(ctx context.Context, seasonID int64) (domain.Summary, error)
	DaySummary(ctx context.Context, date string) (domain.Summary, error)
	ExportSeason(ctx context.Context, seasonID int64, date string) (*service.SeasonExport, error)
}

type ReportHandler struct {
	reportService ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

func (h *ReportHandler) ProductSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	summary, err := h.reportService.ProductSummary(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary, h.logger)
}

func (h *ReportHandler) SeasonSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	summary, err := h.reportService.SeasonSummary(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary, h.logger)
}

func (h *ReportHandler) DaySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.DaySummary(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary, h.logger)
}

// ExportSeason отдает файл выгрузки сезона.
// Файл собирается в памяти целиком, чтобы ошибка записи не обрывала уже начатый ответ.
func (h *ReportHandler) ExportSeason(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", service.ErrInvalidInput, err), h.logger)
		return
	}

	date := r.URL.Query().Get("date")
	result, err := h.reportService.ExportSeason(r.Context(), id, date)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, result.Season.Name, result.Projection.Rows); err != nil {
		writeError(w, r, fmt.Errorf("failed to write %s export: %w", format, err), h.logger)
		return
	}
	metrics.ExportsGenerated.WithLabelValues(string(format)).Inc()

	if date == "" {
		date = "today"
	}
	filename := fmt.Sprintf("season-%d-%s.%s", id, date, format.Extension())

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Export-Skipped", strconv.Itoa(result.Projection.Skipped))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to send export", zap.Int64("season_id", id), zap.Error(err))
	}
}
