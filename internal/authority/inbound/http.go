package inbound

import (
	"context"

	"github.com/shandysiswandi/twostep/internal/authority/entity"
	"github.com/shandysiswandi/twostep/internal/authority/usecase"
	"github.com/shandysiswandi/twostep/internal/pkg/router"
)

type uc interface {
	SendOTP(ctx context.Context, in usecase.SendOTPInput) (*usecase.SendOTPOutput, error)
	CheckOTP(ctx context.Context, in usecase.CheckOTPInput) (*usecase.CheckOTPOutput, error)
	SignIn(ctx context.Context, in usecase.SignInInput) (*usecase.SignInOutput, error)
	Session(ctx context.Context) (*entity.Session, error)
	SignOut(ctx context.Context) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/authority/email-otp/send", end.SendOTP)
	r.POST("/api/v1/authority/email-otp/check", end.CheckOTP)
	r.POST("/api/v1/authority/sign-in/email-otp", end.SignIn)
	r.GET("/api/v1/authority/session", end.Session) // need authenticated
	r.POST("/api/v1/authority/sign-out", end.SignOut)
}
