package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/astrovault/natalcore/internal/security/audit"
	"github.com/astrovault/natalcore/internal/security/auth"
	"github.com/astrovault/natalcore/internal/security/ratelimit"
)

type WorkspaceContextKey struct{}
type ClaimsContextKey struct{}
type RequestIDContextKey struct{}

func isPublicPath(path string) bool {
	return path == "/healthz" || path == "/readyz" || path == "/metrics"
}

// RequestIDMiddleware tags every request with an ID for log correlation,
// honoring an inbound X-Request-ID when present.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), RequestIDContextKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// JWTMiddleware authenticates every API request and scopes it to the
// workspace named in the token. Health and metrics stay public; rejected
// requests are recorded in the audit trail.
func JWTMiddleware(tm *auth.TokenManager, auditLog *audit.Logger, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				auditLog.LogDenied(r.Context(), "", "", "missing authorization header")
				http.Error(w, `{"success":false,"error":"missing auth","code":"UNAUTHORIZED"}`, http.StatusUnauthorized)
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				auditLog.LogDenied(r.Context(), "", "", "malformed authorization header")
				http.Error(w, `{"success":false,"error":"invalid auth","code":"UNAUTHORIZED"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				log.Debug("token rejected", slog.String("error", err.Error()))
				auditLog.LogDenied(r.Context(), "", "", "invalid token")
				http.Error(w, `{"success":false,"error":"invalid token","code":"UNAUTHORIZED"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			ctx = context.WithValue(ctx, WorkspaceContextKey{}, claims.WorkspaceID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitMiddleware limits request rates per workspace.
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			workspaceID := GetWorkspaceFromContext(r.Context())
			if !limiter.Allow(workspaceID) {
				log.Warn("rate limit exceeded", slog.String("workspace_id", workspaceID))
				http.Error(w, `{"success":false,"error":"rate limit exceeded","code":"RATE_LIMITED"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware records workspace actions against horoscope resources.
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			workspaceID := GetWorkspaceFromContext(r.Context())
			userID := ""
			if c := r.Context().Value(ClaimsContextKey{}); c != nil {
				userID = c.(*auth.Claims).UserID
			}

			if r.Method == http.MethodPost && r.URL.Path == "/api/horoscopes/generate" {
				auditLog.LogGeneration(r.Context(), workspaceID, userID, "", "initiated", "")
			}
			if r.Method == http.MethodGet {
				if hash := lookupHash(r.URL.Path); hash != "" {
					auditLog.LogLookup(r.Context(), workspaceID, userID, hash, "initiated", "")
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// lookupHash extracts the birth hash segment from a horoscope read path.
// The middleware runs before the mux, so path values are not populated yet
// and the URL has to be parsed directly.
func lookupHash(path string) string {
	rest, ok := strings.CutPrefix(path, "/api/horoscopes/")
	if !ok || rest == "" {
		return ""
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func GetWorkspaceFromContext(ctx context.Context) string {
	if v := ctx.Value(WorkspaceContextKey{}); v != nil {
		return v.(string)
	}
	return ""
}

func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		return c.(*auth.Claims)
	}
	return nil
}

func GetRequestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(RequestIDContextKey{}); v != nil {
		return v.(string)
	}
	return ""
}
