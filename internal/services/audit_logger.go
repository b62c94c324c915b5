package services

import (
	"context"
	"log/slog"

	"github.com/cosmosecure/web/domain"
)

// SlogAuditLogger writes audit events to the structured log.
type SlogAuditLogger struct {
	logger *slog.Logger
}

// NewSlogAuditLogger creates an audit logger backed by the given slog logger.
func NewSlogAuditLogger(logger *slog.Logger) domain.AuditLogger {
	return &SlogAuditLogger{logger: logger}
}

// LogEvent implements domain.AuditLogger.
func (l *SlogAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	attrs := []any{
		"event_type", string(event.EventType),
		"success", event.Success,
		"timestamp", event.Timestamp,
	}
	if event.UserID != "" {
		attrs = append(attrs, "user_id", event.UserID)
	}
	if event.Email != "" {
		attrs = append(attrs, "email", event.Email)
	}
	if event.SessionID != "" {
		attrs = append(attrs, "session_id", event.SessionID)
	}
	if event.ErrorMsg != "" {
		attrs = append(attrs, "error", event.ErrorMsg)
	}
	for k, v := range event.Metadata {
		attrs = append(attrs, k, v)
	}

	if event.Success {
		l.logger.InfoContext(ctx, "audit", attrs...)
	} else {
		l.logger.WarnContext(ctx, "audit", attrs...)
	}
}
