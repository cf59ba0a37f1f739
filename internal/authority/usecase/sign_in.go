package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/twostep/internal/authority/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
	"github.com/shandysiswandi/twostep/internal/pkg/jwt"
)

type SignInInput struct {
	Email string `validate:"required,email"`
	OTP   string `validate:"required"`
}

type SignInOutput struct {
	AccessToken string
	ExpiresAt   time.Time
	User        entity.User
}

// SignIn exchanges a valid sign-in code for a session token.
func (s *Usecase) SignIn(ctx context.Context, in SignInInput) (*SignInOutput, error) {
	ctx, span := s.startSpan(ctx, "SignIn")
	defer span.End()

	errInvalid := goerror.NewBusiness(MsgInvalidCode, goerror.CodeUnauthorized)

	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, errInvalid
	}

	ok, err := s.matchOTP(ctx, entity.OTPTypeSignIn, in.Email, in.OTP, true)
	if err != nil {
		return nil, goerror.NewServer(err)
	}
	if !ok {
		return nil, errInvalid
	}

	user, err := s.repoDB.FindUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "sign-in user not found", "email", in.Email)
		return nil, errInvalid
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find user by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate session token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.sessionTTL()
	if err := s.repoSession.Set(ctx, token, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to set session cookie", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &SignInOutput{
		AccessToken: token,
		ExpiresAt:   s.clock.Now().Add(ttl),
		User:        *user,
	}, nil
}

// Session returns the caller's authenticated session.
func (s *Usecase) Session(ctx context.Context) (*entity.Session, error) {
	_, span := s.startSpan(ctx, "Session")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness(MsgAuthRequired, goerror.CodeUnauthorized)
	}

	out := &entity.Session{UserID: clm.UserID, Email: clm.UserEmail}
	if clm.ExpiresAt != nil {
		out.ExpiresAt = clm.ExpiresAt.Time
	}

	return out, nil
}

// SignOut drops the session cookie. Issued tokens stay valid until they expire.
func (s *Usecase) SignOut(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "SignOut")
	defer span.End()

	if err := s.repoSession.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to clear session cookie", "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
