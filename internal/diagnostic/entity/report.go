package entity

import (
	"time"
	"unicode/utf8"
)

const (
	MaxMessageLen = 2000
	MaxStackLen   = 10000
	MaxDigestLen  = 200

	DefaultMessage = "Unknown"
	DefaultSource  = "client"
)

// ClientErrorReport is an error a browser reported back to the server.
type ClientErrorReport struct {
	ID         string    `json:"id"`
	Message    string    `json:"message"`
	Stack      string    `json:"stack,omitempty"`
	Digest     string    `json:"digest,omitempty"`
	Source     string    `json:"source"`
	IP         string    `json:"ip,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Truncate cuts s to at most n characters without splitting a rune.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
