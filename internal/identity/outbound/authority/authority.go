// Package authority adapts the authority module to the narrow send/check
// contract the login flow depends on.
package authority

import (
	"context"

	"github.com/shandysiswandi/twostep/internal/authority/usecase"
)

type authorityUsecase interface {
	SendOTP(ctx context.Context, in usecase.SendOTPInput) (*usecase.SendOTPOutput, error)
	CheckOTP(ctx context.Context, in usecase.CheckOTPInput) (*usecase.CheckOTPOutput, error)
}

type Authority struct {
	uc authorityUsecase
}

func New(uc authorityUsecase) *Authority {
	return &Authority{uc: uc}
}

func (a *Authority) SendOTP(ctx context.Context, email, otpType string) (bool, error) {
	out, err := a.uc.SendOTP(ctx, usecase.SendOTPInput{Email: email, Type: otpType})
	if err != nil {
		return false, err
	}

	return out.Success, nil
}

func (a *Authority) CheckOTP(ctx context.Context, email, otpType, code string) (bool, error) {
	out, err := a.uc.CheckOTP(ctx, usecase.CheckOTPInput{Email: email, Type: otpType, OTP: code})
	if err != nil {
		return false, err
	}

	return out.Success, nil
}
