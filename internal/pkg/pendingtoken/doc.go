// Package pendingtoken signs and verifies the short-lived token that proves
// a user passed the password step of a two-step login.
//
// A token is the base64url JSON payload and the base64url HMAC-SHA256 of that
// encoded payload, joined by a single ".". Decode never reveals why a token
// was rejected: every failure is reported as ErrInvalid.
package pendingtoken
