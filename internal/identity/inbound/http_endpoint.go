package inbound

import (
	"github.com/shandysiswandi/twostep/internal/identity/entity"
	"github.com/shandysiswandi/twostep/internal/identity/usecase"
	"github.com/shandysiswandi/twostep/internal/pkg/router"
)

// HTTPEndpoint exposes the registration and two-step login handlers.
type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return nil, err
	}

	return RegisterResponse{}, nil
}

// LoginCredentials runs the password step and starts the pending session.
func (h *HTTPEndpoint) LoginCredentials(r *router.Request) (any, error) {
	var req LoginCredentialsRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ValidateCredentials(r.Context(), usecase.ValidateCredentialsInput{
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return nil, err
	}

	return LoginCredentialsResponse{TwoStep: true}, nil
}

func (h *HTTPEndpoint) LoginOTPSend(r *router.Request) (any, error) {
	var req LoginOTPSendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	ch := entity.ChannelFromString(req.Channel)
	if err := h.uc.SendLoginOTP(r.Context(), usecase.SendLoginOTPInput{Channel: ch}); err != nil {
		return nil, err
	}

	return LoginOTPSendResponse{Sent: true, Channel: ch.String()}, nil
}

// LoginOTPVerify checks the code. The client completes sign-in with the
// authority afterwards.
func (h *HTTPEndpoint) LoginOTPVerify(r *router.Request) (any, error) {
	var req LoginOTPVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyLoginOTP(r.Context(), usecase.VerifyLoginOTPInput{
		Code:    req.Code,
		Channel: entity.ChannelFromString(req.Channel),
	})
	if err != nil {
		return nil, err
	}

	return LoginOTPVerifyResponse{
		Verified: true,
		Email:    resp.Email,
		Channel:  resp.Channel.String(),
	}, nil
}

func (h *HTTPEndpoint) LoginReset(r *router.Request) (any, error) {
	resp, err := h.uc.ClearPendingSession(r.Context())
	if err != nil {
		return nil, err
	}

	return LoginResetResponse{HadPendingSession: resp.HadPendingSession}, nil
}

func (h *HTTPEndpoint) LoginPending(r *router.Request) (any, error) {
	resp, err := h.uc.PendingStatus(r.Context())
	if err != nil {
		return nil, err
	}

	out := LoginPendingResponse{Pending: resp.Pending, Email: resp.Email}
	if resp.Pending {
		out.ExpiresAt = &resp.ExpiresAt
	}

	return out, nil
}
