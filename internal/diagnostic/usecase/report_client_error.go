package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/twostep/internal/diagnostic/entity"
)

// ReportClientErrorInput holds the raw fields a browser sent. A nil field was
// absent or not a string.
type ReportClientErrorInput struct {
	Message   *string
	Stack     *string
	Digest    *string
	Source    *string
	IP        string
	UserAgent string
}

// ReportClientError logs the report and, when enabled, archives it. It never
// fails: reporting must not break the page that reported.
func (s *Usecase) ReportClientError(ctx context.Context, in ReportClientErrorInput) entity.ClientErrorReport {
	ctx, span := s.startSpan(ctx, "ReportClientError")
	defer span.End()

	r := entity.ClientErrorReport{
		ID:         s.uuid.Generate(),
		Message:    entity.DefaultMessage,
		Source:     entity.DefaultSource,
		IP:         in.IP,
		UserAgent:  in.UserAgent,
		ReceivedAt: s.clock.Now(),
	}
	if in.Message != nil {
		r.Message = entity.Truncate(*in.Message, entity.MaxMessageLen)
	}
	if in.Stack != nil {
		r.Stack = entity.Truncate(*in.Stack, entity.MaxStackLen)
	}
	if in.Digest != nil {
		r.Digest = entity.Truncate(*in.Digest, entity.MaxDigestLen)
	}
	if in.Source != nil {
		r.Source = *in.Source
	}

	slog.ErrorContext(ctx, "Client error report",
		"report_id", r.ID,
		"message", r.Message,
		"stack", r.Stack,
		"digest", r.Digest,
		"source", r.Source,
	)

	if !s.archiveEnabled() {
		return r
	}

	key, err := s.repoArchive.SaveClientError(ctx, r)
	if err != nil {
		slog.WarnContext(ctx, "failed to archive client error report", "report_id", r.ID, "error", err)
		return r
	}
	slog.DebugContext(ctx, "client error report archived", "report_id", r.ID, "key", key)

	return r
}
