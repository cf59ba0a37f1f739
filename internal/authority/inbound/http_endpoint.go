package inbound

import (
	"github.com/shandysiswandi/twostep/internal/authority/usecase"
	"github.com/shandysiswandi/twostep/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{Email: req.Email, Type: req.Type})
	if err != nil {
		return nil, err
	}

	return SendOTPResponse{Success: resp.Success}, nil
}

func (h *HTTPEndpoint) CheckOTP(r *router.Request) (any, error) {
	var req CheckOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CheckOTP(r.Context(), usecase.CheckOTPInput{Email: req.Email, Type: req.Type, OTP: req.OTP})
	if err != nil {
		return nil, err
	}

	return CheckOTPResponse{Success: resp.Success}, nil
}

// SignIn completes an email code sign-in and sets the session cookie.
func (h *HTTPEndpoint) SignIn(r *router.Request) (any, error) {
	var req SignInRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SignIn(r.Context(), usecase.SignInInput{Email: req.Email, OTP: req.OTP})
	if err != nil {
		return nil, err
	}

	return SignInResponse{
		AccessToken: resp.AccessToken,
		ExpiresAt:   resp.ExpiresAt,
		User: UserResponse{
			ID:    resp.User.ID,
			Email: resp.User.Email,
			Name:  resp.User.Name,
		},
	}, nil
}

func (h *HTTPEndpoint) Session(r *router.Request) (any, error) {
	resp, err := h.uc.Session(r.Context())
	if err != nil {
		return nil, err
	}

	return SessionResponse{UserID: resp.UserID, Email: resp.Email, ExpiresAt: resp.ExpiresAt}, nil
}

func (h *HTTPEndpoint) SignOut(r *router.Request) (any, error) {
	if err := h.uc.SignOut(r.Context()); err != nil {
		return nil, err
	}

	return SignOutResponse{Success: true}, nil
}
