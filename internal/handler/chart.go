package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/astrovault/natalcore/internal/security/middleware"
	"github.com/astrovault/natalcore/internal/service"
)

// ChartReader serves one divisional chart in display form.
type ChartReader interface {
	GetFormatted(ctx context.Context, workspaceID, birthHash, division string) (*service.FormattedChart, error)
}

// ChartResponse wraps one formatted divisional chart.
type ChartResponse struct {
	Success bool                    `json:"success"`
	Data    *service.FormattedChart `json:"data"`
}

// ChartHandler handles single-chart reads
type ChartHandler struct {
	charts ChartReader
	logger *slog.Logger
}

// NewChartHandler creates a new chart handler
func NewChartHandler(charts ChartReader, logger *slog.Logger) *ChartHandler {
	return &ChartHandler{charts: charts, logger: logger}
}

// ServeHTTP handles GET /api/horoscopes/{birthHash}/charts/{division} requests
func (h *ChartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	birthHash := r.PathValue("birthHash")
	division := r.PathValue("division")
	workspaceID := middleware.GetWorkspaceFromContext(r.Context())

	chart, err := h.charts.GetFormatted(r.Context(), workspaceID, birthHash, division)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, ChartResponse{Success: true, Data: chart}, h.logger)
}
