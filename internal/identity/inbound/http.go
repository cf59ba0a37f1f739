package inbound

import (
	"context"

	"github.com/shandysiswandi/twostep/internal/identity/usecase"
	"github.com/shandysiswandi/twostep/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) error

	ValidateCredentials(ctx context.Context, in usecase.ValidateCredentialsInput) error
	SendLoginOTP(ctx context.Context, in usecase.SendLoginOTPInput) error
	VerifyLoginOTP(ctx context.Context, in usecase.VerifyLoginOTPInput) (*usecase.VerifyLoginOTPOutput, error)

	PendingStatus(ctx context.Context) (*usecase.PendingStatusOutput, error)
	ClearPendingSession(ctx context.Context) (*usecase.ClearPendingSessionOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/identity/register", end.Register)

	// Two-step login
	r.POST("/api/v1/identity/login/credentials", end.LoginCredentials)
	r.POST("/api/v1/identity/login/otp/send", end.LoginOTPSend)
	r.POST("/api/v1/identity/login/otp/verify", end.LoginOTPVerify)
	r.POST("/api/v1/identity/login/reset", end.LoginReset)
	r.GET("/api/v1/identity/login/pending", end.LoginPending)
}
