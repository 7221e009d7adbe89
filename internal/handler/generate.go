package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/astrovault/natalcore/internal/domain"
	"github.com/astrovault/natalcore/internal/security/middleware"
	"github.com/astrovault/natalcore/internal/service"
)

// Generator resolves birth details to a composite horoscope.
type Generator interface {
	Generate(ctx context.Context, workspaceID string, details domain.BirthDetails) (*service.GenerateResult, error)
}

// GenerateRequest carries the birth parameters for one computation and an
// optional list of sections to reduce the response to.
type GenerateRequest struct {
	BirthDetails domain.BirthDetails `json:"birthDetails"`
	Sections     []string            `json:"sections,omitempty"`
}

// GenerateResponse wraps the composite with resolution provenance.
type GenerateResponse struct {
	Success   bool        `json:"success"`
	Cached    bool        `json:"cached"`
	BirthHash string      `json:"birthHash"`
	Data      interface{} `json:"data"`
}

// GenerateHandler handles horoscope generation requests
type GenerateHandler struct {
	horoscopes Generator
	logger     *slog.Logger
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(horoscopes Generator, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{horoscopes: horoscopes, logger: logger}
}

// ServeHTTP handles POST /api/horoscopes/generate requests
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation), h.logger)
		return
	}
	if err := validateBirthDetails(req.BirthDetails); err != nil {
		writeError(w, err, h.logger)
		return
	}

	workspaceID := middleware.GetWorkspaceFromContext(r.Context())
	result, err := h.horoscopes.Generate(r.Context(), workspaceID, req.BirthDetails)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	var data interface{} = result.Composite
	if set := sectionSet(req.Sections); set != nil {
		data = filterSections(result.Composite, set)
	}

	status := http.StatusCreated
	if result.Cached {
		status = http.StatusOK
	}
	writeJSON(w, status, GenerateResponse{
		Success:   true,
		Cached:    result.Cached,
		BirthHash: result.BirthHash,
		Data:      data,
	}, h.logger)
}

func validateBirthDetails(d domain.BirthDetails) error {
	if d.Date == "" {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if d.Time == "" {
		return fmt.Errorf("%w: time is required", domain.ErrValidation)
	}
	if d.Timezone == "" {
		return fmt.Errorf("%w: timezone is required", domain.ErrValidation)
	}
	if d.Latitude < -90 || d.Latitude > 90 {
		return fmt.Errorf("%w: latitude out of range", domain.ErrValidation)
	}
	if d.Longitude < -180 || d.Longitude > 180 {
		return fmt.Errorf("%w: longitude out of range", domain.ErrValidation)
	}
	return nil
}
