// Package goerror carries a user-facing message, a kind and a status code
// alongside the underlying error, so handlers can render failures uniformly.
package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels returned by repositories.
var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource conflict")
)

// Type is the broad origin of an error.
type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
)

var typeNames = map[Type]string{
	TypeServer:     "server",
	TypeBusiness:   "business",
	TypeValidation: "validation",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// Code decides the HTTP status of an error.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeTooManyRequest
	CodeUnauthorized
	CodeForbidden
)

type codeInfo struct {
	name   string
	status int
}

var codes = map[Code]codeInfo{
	CodeInternal:       {"internal", http.StatusInternalServerError},
	CodeInvalidFormat:  {"invalid_format", http.StatusBadRequest},
	CodeInvalidInput:   {"invalid_input", http.StatusUnprocessableEntity},
	CodeNotFound:       {"not_found", http.StatusNotFound},
	CodeConflict:       {"conflict", http.StatusConflict},
	CodeTooManyRequest: {"too_many_requests", http.StatusTooManyRequests},
	CodeUnauthorized:   {"unauthorized", http.StatusUnauthorized},
	CodeForbidden:      {"forbidden", http.StatusForbidden},
}

func (c Code) String() string {
	if i, ok := codes[c]; ok {
		return i.name
	}
	return codes[CodeInternal].name
}

// Error is the application error. Msg is safe to show to end users; the
// wrapped error is not.
type Error struct {
	err    error
	msg    string
	kind   Type
	code   Code
	fields map[string]string
}

func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	default:
		return e.kind.String() + " error"
	}
}

// String is the verbose form used in logs.
func (e *Error) String() string {
	return fmt.Sprintf("type=%s code=%s msg=%q cause=%v", e.kind, e.code, e.msg, e.err)
}

func (e *Error) Msg() string               { return e.msg }
func (e *Error) Type() Type                { return e.kind }
func (e *Error) Code() Code                { return e.code }
func (e *Error) Fields() map[string]string { return e.fields }
func (e *Error) Unwrap() error             { return e.err }

// StatusCode maps Code to an HTTP status; unknown codes are 500.
func (e *Error) StatusCode() int {
	if i, ok := codes[e.code]; ok {
		return i.status
	}
	return http.StatusInternalServerError
}

// NewServer hides err behind a generic message.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", kind: TypeServer, code: CodeInternal}
}

// NewBusiness is a rule violation whose msg is shown as is.
func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, kind: TypeBusiness, code: code}
}

// NewInvalidInput wraps a validator error, or builds field errors from
// key/value pairs when err is nil. An odd pair count is a malformed body.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return &Error{err: err, msg: "Validation error", kind: TypeValidation, code: CodeInvalidInput}
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}
	return &Error{msg: "Validation error", kind: TypeValidation, code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat reports a body that could not be decoded. The first msg,
// if any, replaces the default message.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, kind: TypeValidation, code: CodeInvalidFormat}
}
