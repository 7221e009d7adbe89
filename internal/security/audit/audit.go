package audit

import (
	"context"
	"log/slog"
	"time"
)

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, workspaceID, userID, action, resource, resourceID, status, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("workspace_id", workspaceID),
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("details", details),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogGeneration(ctx context.Context, workspaceID, userID, birthHash, status, details string) {
	al.LogAction(ctx, workspaceID, userID, "generate", "horoscope", birthHash, status, details)
}

func (al *Logger) LogLookup(ctx context.Context, workspaceID, userID, birthHash, status, details string) {
	al.LogAction(ctx, workspaceID, userID, "lookup", "horoscope", birthHash, status, details)
}

func (al *Logger) LogDenied(ctx context.Context, workspaceID, userID, reason string) {
	al.LogAction(ctx, workspaceID, userID, "access_denied", "api", "", "denied", reason)
}
