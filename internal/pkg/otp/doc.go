// Package otp generates and compares short numeric one-time codes, the kind
// sent over email or SMS during sign-in.
package otp
