package notify

import (
	"context"
	"log/slog"

	"yojanamitra/pkg/requestcontext"
)

// LogSink writes each notification as a structured log line.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, sessionID string, n Notification) {
	level := slog.LevelInfo
	if n.Severity == SeverityDestructive {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "notification",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", sessionID,
		"title", n.Title,
		"severity", n.Severity,
	)
}
