package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
)

// SeedUsers creates the configured users that do not exist yet.
//
// Each entry has the form "email|password|name"; name is optional.
func (s *Usecase) SeedUsers(ctx context.Context, entries []string) (created int, err error) {
	ctx, span := s.startSpan(ctx, "SeedUsers")
	defer span.End()

	for _, raw := range entries {
		parts := strings.SplitN(raw, "|", 3)
		if len(parts) < 2 {
			slog.WarnContext(ctx, "skip malformed seed user entry")
			continue
		}

		in := RegisterInput{Email: parts[0], Password: parts[1]}
		if len(parts) == 3 {
			in.Name = parts[2]
		}

		err := s.Register(ctx, in)
		var gerr *goerror.Error
		switch {
		case err == nil:
			created++
		case errors.As(err, &gerr) && gerr.Code() == goerror.CodeConflict:
			// already seeded
		default:
			return created, err
		}
	}

	slog.InfoContext(ctx, "seed users done", "created", created, "total", len(entries))
	return created, nil
}
