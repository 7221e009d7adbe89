package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/astrovault/natalcore/internal/domain"
)

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError maps a domain sentinel to its status and stable code. Internal
// details never reach the client; they are logged server-side only.
func writeError(w http.ResponseWriter, err error, logger *slog.Logger) {
	code := domain.ErrorCode(err)
	status := statusFor(err)
	message := publicMessage(err, code)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.String("code", code), slog.String("error", err.Error()))
	}
	writeJSON(w, status, errorResponse{Success: false, Error: message, Code: code}, logger)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateFingerprint):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func publicMessage(err error, code string) string {
	switch code {
	case "INTERNAL_ERROR":
		return "internal error"
	case "VALIDATION_ERROR":
		// Validation messages are safe and useful to echo.
		return err.Error()
	default:
		return err.Error()
	}
}
