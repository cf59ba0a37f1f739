package inbound

import "time"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct{}

func (RegisterResponse) Message() string {
	return "Registration successful. You can now sign in."
}

func (RegisterResponse) StatusCode() int {
	return 201
}

type LoginCredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginCredentialsResponse struct {
	TwoStep bool `json:"two_step"`
}

func (LoginCredentialsResponse) Message() string {
	return "Credentials verified. Choose where to receive your code."
}

type LoginOTPSendRequest struct {
	Channel string `json:"channel"`
}

type LoginOTPSendResponse struct {
	Sent    bool   `json:"sent"`
	Channel string `json:"channel"`
}

func (LoginOTPSendResponse) Message() string {
	return "Code sent."
}

type LoginOTPVerifyRequest struct {
	Code    string `json:"code"`
	Channel string `json:"channel"`
}

type LoginOTPVerifyResponse struct {
	Verified bool   `json:"verified"`
	Email    string `json:"email"`
	Channel  string `json:"channel"`
}

func (LoginOTPVerifyResponse) Message() string {
	return "Code verified."
}

type LoginResetResponse struct {
	HadPendingSession bool `json:"had_pending_session"`
}

type LoginPendingResponse struct {
	Pending   bool       `json:"pending"`
	Email     string     `json:"email,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
