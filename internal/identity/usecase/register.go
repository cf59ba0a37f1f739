package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/twostep/internal/identity/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
)

type RegisterInput struct {
	Name     string `validate:"max=256"`
	Email    string `validate:"required,email,max=320"`
	Password string `validate:"required,password"`
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = entity.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	return s.createUser(ctx, in)
}

func (s *Usecase) createUser(ctx context.Context, in RegisterInput) error {
	hashed, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	err = s.repoDB.CreateUser(ctx, entity.NewUser{
		ID:    s.uid.Generate(),
		Email: in.Email,
		Name:  in.Name,
	}, string(hashed))
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "user already registered", "email", in.Email)
		return goerror.NewBusiness(MsgRegisterFailed, goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
