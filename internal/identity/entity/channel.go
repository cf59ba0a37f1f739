package entity

import "strings"

// Channel is the delivery route for a sign-in code.
type Channel int8

const (
	ChannelUnknown Channel = iota
	ChannelEmail
	ChannelSMS
)

func (c Channel) String() string {
	switch c {
	case ChannelEmail:
		return "email"
	case ChannelSMS:
		return "sms"
	default:
		return "unknown"
	}
}

// ChannelFromString parses "email" or "sms", case-insensitively.
func ChannelFromString(s string) Channel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "email":
		return ChannelEmail
	case "sms":
		return ChannelSMS
	default:
		return ChannelUnknown
	}
}
