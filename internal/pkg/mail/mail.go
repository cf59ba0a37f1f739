package mail

import (
	"context"
	"io"
)

type Message struct {
	// From overrides the sender configured on the Mail.
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
