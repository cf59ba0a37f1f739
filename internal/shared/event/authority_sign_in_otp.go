package event

const AuthoritySignInOTPDestination string = "authority_sign_in_otp"
const AuthoritySignInOTPConsumerNotification string = "authority_sign_in_otp_notification"

type AuthoritySignInOTPMessage struct {
	Email     string `json:"email"`
	OTP       string `json:"otp"`
	Type      string `json:"type"`
	ExpiresAt int64  `json:"expires_at"`
}
