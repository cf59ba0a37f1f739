package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
)

type PendingStatusOutput struct {
	Pending   bool
	Email     string
	ExpiresAt time.Time
}

// PendingStatus reports the current pending session without changing it.
func (s *Usecase) PendingStatus(ctx context.Context) (*PendingStatusOutput, error) {
	ctx, span := s.startSpan(ctx, "PendingStatus")
	defer span.End()

	ps := s.repoPending.Get(ctx)
	if ps == nil {
		return &PendingStatusOutput{}, nil
	}

	return &PendingStatusOutput{Pending: true, Email: ps.Email, ExpiresAt: ps.ExpiresAt}, nil
}

type ClearPendingSessionOutput struct {
	HadPendingSession bool
}

// ClearPendingSession abandons the current login attempt.
func (s *Usecase) ClearPendingSession(ctx context.Context) (*ClearPendingSessionOutput, error) {
	ctx, span := s.startSpan(ctx, "ClearPendingSession")
	defer span.End()

	had := s.repoPending.Get(ctx) != nil

	if err := s.repoPending.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to clear pending session", "error", err)
		return nil, goerror.NewBusiness(MsgSomethingWrong, goerror.CodeInternal)
	}

	return &ClearPendingSessionOutput{HadPendingSession: had}, nil
}
