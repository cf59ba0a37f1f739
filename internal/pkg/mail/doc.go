// Package mail sends email through SMTP, or writes it to the log when no
// relay is configured.
package mail
