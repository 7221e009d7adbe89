package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/astrovault/natalcore/internal/domain"
	"github.com/astrovault/natalcore/internal/security/middleware"
)

// CompositeReader reconstructs a stored horoscope by hash.
type CompositeReader interface {
	GetByHash(ctx context.Context, workspaceID, birthHash string) (*domain.Composite, error)
}

// HoroscopeResponse wraps a reconstructed composite, optionally reduced to
// the requested sections.
type HoroscopeResponse struct {
	Success   bool        `json:"success"`
	BirthHash string      `json:"birthHash"`
	Data      interface{} `json:"data"`
}

// HoroscopeHandler handles stored-horoscope reads
type HoroscopeHandler struct {
	horoscopes CompositeReader
	logger     *slog.Logger
}

// NewHoroscopeHandler creates a new horoscope handler
func NewHoroscopeHandler(horoscopes CompositeReader, logger *slog.Logger) *HoroscopeHandler {
	return &HoroscopeHandler{horoscopes: horoscopes, logger: logger}
}

// ServeHTTP handles GET /api/horoscopes/{birthHash} requests
func (h *HoroscopeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	birthHash := r.PathValue("birthHash")
	workspaceID := middleware.GetWorkspaceFromContext(r.Context())

	composite, err := h.horoscopes.GetByHash(r.Context(), workspaceID, birthHash)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	var data interface{} = composite
	if sections := parseSections(r.URL.Query().Get("sections")); sections != nil {
		data = filterSections(composite, sections)
	}
	writeJSON(w, http.StatusOK, HoroscopeResponse{
		Success:   true,
		BirthHash: composite.BirthHash,
		Data:      data,
	}, h.logger)
}
