package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/twostep/internal/identity/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
)

type ValidateCredentialsInput struct {
	Email    string
	Password string
}

// ValidateCredentials checks email and password and, on success, starts a
// pending session. Every failure returns the same error.
func (s *Usecase) ValidateCredentials(ctx context.Context, in ValidateCredentialsInput) error {
	ctx, span := s.startSpan(ctx, "ValidateCredentials")
	defer span.End()

	errInvalid := goerror.NewBusiness(MsgInvalidCredentials, goerror.CodeUnauthorized)

	email := entity.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return errInvalid
	}

	cred, err := s.repoDB.FindCredentialByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "login credential not found", "email", email)
		return errInvalid
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find credential by email", "email", email, "error", err)
		return errInvalid
	}

	if cred.PasswordHash == "" {
		slog.WarnContext(ctx, "login credential has no password", "user_id", cred.UserID)
		return errInvalid
	}

	if !s.password.Verify(cred.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "login password not match", "user_id", cred.UserID)
		return errInvalid
	}

	if err := s.repoPending.Set(ctx, email); err != nil {
		slog.ErrorContext(ctx, "failed to set pending session", "user_id", cred.UserID, "error", err)
		return errInvalid
	}

	return nil
}
