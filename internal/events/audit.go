package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/workforce-api/internal/platform/logger"
)

// AuditLogHandler writes one structured log line per task event.
type AuditLogHandler struct {
	logger *slog.Logger
}

// NewAuditLogHandler creates an AuditLogHandler.
// If logger is nil, a default logger will be used.
func NewAuditLogHandler(l *slog.Logger) *AuditLogHandler {
	if l == nil {
		l = slog.Default()
	}
	return &AuditLogHandler{logger: l.With("component", "task_audit")}
}

// HandleEvent implements EventHandler. It never fails.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.Int64("task_id", event.TaskID),
	}
	if len(event.Payload) > 0 {
		attrs = append(attrs, slog.String("payload", string(event.Payload)))
	}
	// Keep the trace ID of the request logger when there is one.
	logger.FromContextOrDefault(ctx, h.logger).Info("task event", attrs...)
	return nil
}
