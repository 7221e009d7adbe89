package domain

import "errors"

// Sentinel errors for the conditions callers are expected to branch on.
// Handlers map these to stable error codes; nothing else leaks out.
var (
	// ErrNotFound: a lookup by hash, division or system yielded nothing.
	ErrNotFound = errors.New("not found")

	// ErrNotConfigured: the workspace has no provider credentials.
	ErrNotConfigured = errors.New("provider not configured for workspace")

	// ErrProviderUnavailable: network failure, timeout or non-2xx from the
	// calculation provider.
	ErrProviderUnavailable = errors.New("calculation provider unavailable")

	// ErrMalformedResponse: the provider payload could not be parsed even
	// after one repair attempt.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrDuplicateFingerprint: two first-time requests for the same
	// (workspace, birth hash) raced at the unique index; exactly one
	// committed. Fatal to the losing request, never retried blindly.
	ErrDuplicateFingerprint = errors.New("horoscope already exists for birth hash")

	// ErrValidation: malformed or missing input, stopped before the core.
	ErrValidation = errors.New("invalid input")
)

// ErrorCode returns the stable, user-visible code for err.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrNotConfigured):
		return "NOT_CONFIGURED"
	case errors.Is(err, ErrProviderUnavailable):
		return "PROVIDER_UNAVAILABLE"
	case errors.Is(err, ErrMalformedResponse):
		return "MALFORMED_PROVIDER_RESPONSE"
	case errors.Is(err, ErrDuplicateFingerprint):
		return "DUPLICATE_FINGERPRINT"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}
