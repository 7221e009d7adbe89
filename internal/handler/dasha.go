package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/astrovault/natalcore/internal/domain"
	"github.com/astrovault/natalcore/internal/security/middleware"
	"github.com/astrovault/natalcore/internal/service"
)

// DashaReader answers point-in-time period queries.
type DashaReader interface {
	Current(ctx context.Context, workspaceID, birthHash, system string, asOf time.Time) (*service.ActiveDasha, error)
}

// DashaResponse wraps the active period.
type DashaResponse struct {
	Success bool                 `json:"success"`
	Data    *service.ActiveDasha `json:"data"`
}

// DashaHandler handles active-period queries
type DashaHandler struct {
	dashas DashaReader
	logger *slog.Logger
}

// NewDashaHandler creates a new dasha handler
func NewDashaHandler(dashas DashaReader, logger *slog.Logger) *DashaHandler {
	return &DashaHandler{dashas: dashas, logger: logger}
}

// ServeHTTP handles GET /api/horoscopes/{birthHash}/dashas/current requests
func (h *DashaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	birthHash := r.PathValue("birthHash")
	workspaceID := middleware.GetWorkspaceFromContext(r.Context())

	system := r.URL.Query().Get("system")
	if system == "" {
		system = "vimsottari"
	}

	asOf := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := parseAsOf(raw)
		if err != nil {
			writeError(w, err, h.logger)
			return
		}
		asOf = parsed
	}

	active, err := h.dashas.Current(r.Context(), workspaceID, birthHash, system, asOf)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, DashaResponse{Success: true, Data: active}, h.logger)
}

func parseAsOf(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date must be RFC 3339 or YYYY-MM-DD", domain.ErrValidation)
}
