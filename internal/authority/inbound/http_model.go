package inbound

import "time"

type SendOTPRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

type SendOTPResponse struct {
	Success bool `json:"success"`
}

type CheckOTPRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
	OTP   string `json:"otp"`
}

type CheckOTPResponse struct {
	Success bool `json:"success"`
}

type SignInRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type UserResponse struct {
	ID    int64  `json:"id,string"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type SignInResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

func (SignInResponse) Message() string {
	return "Signed in successfully"
}

type SessionResponse struct {
	UserID    int64     `json:"user_id,string"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SignOutResponse struct {
	Success bool `json:"success"`
}

func (SignOutResponse) Message() string {
	return "Signed out"
}
