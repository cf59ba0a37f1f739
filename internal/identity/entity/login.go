package entity

import (
	"strings"
	"time"
)

// SMSIdentifierPrefix namespaces SMS sign-in codes in identity_verifications.
const SMSIdentifierPrefix = "two-step-login-sms-"

// OTPTypeSignIn is the intent passed to the authority for sign-in codes.
const OTPTypeSignIn = "sign-in"

// PendingSession is the proof that the password step succeeded.
type PendingSession struct {
	Email     string
	ExpiresAt time.Time
}

// Credential is what the password step needs to know about a user.
type Credential struct {
	UserID       int64
	Email        string
	PasswordHash string
}

// Verification is a stored one-time code.
//
// Value is "<code>:<marker>". Only the code part is ever read; the marker is
// kept as written.
type Verification struct {
	ID         string
	Identifier string
	Value      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Code returns the part of Value before the first ':'.
func (v Verification) Code() string {
	code, _, _ := strings.Cut(v.Value, ":")
	return code
}

// Expired reports whether the record is no longer usable at now.
func (v Verification) Expired(now time.Time) bool {
	return !v.ExpiresAt.After(now)
}

// SMSIdentifier returns the verification identifier for email.
func SMSIdentifier(email string) string {
	return SMSIdentifierPrefix + email
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type NewUser struct {
	ID    int64
	Email string
	Name  string
}
