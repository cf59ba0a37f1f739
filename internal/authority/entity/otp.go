package entity

import (
	"strconv"
	"time"
)

// OTPTypeSignIn is the only intent codes are issued for.
const OTPTypeSignIn = "sign-in"

// OTP is the stored form of an issued code: its HMAC and the number of
// failed checks so far.
type OTP struct {
	Hash     string
	Attempts int
}

// String encodes the record as "<hash>:<attempts>".
func (o OTP) String() string {
	return o.Hash + ":" + strconv.Itoa(o.Attempts)
}

// OTPCheck is the outcome of checking a submitted code against the store.
type OTPCheck string

const (
	OTPMatch     OTPCheck = "match"
	OTPMismatch  OTPCheck = "mismatch"
	OTPMissing   OTPCheck = "missing"
	OTPExhausted OTPCheck = "exhausted"
	OTPMalformed OTPCheck = "malformed"
)

// ValidOTPType reports whether codes may be issued for t.
func ValidOTPType(t string) bool {
	return t == OTPTypeSignIn
}

type User struct {
	ID    int64
	Email string
	Name  string
}

type Session struct {
	UserID    int64
	Email     string
	ExpiresAt time.Time
}
