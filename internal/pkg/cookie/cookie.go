// Package cookie gives request-scoped access to HTTP cookies through the
// context, so code below the transport layer can read and write them without
// holding the request or the response writer.
//
// The router attaches a Jar to every request. Only state-changing methods get
// a writable jar; writing through a read-only jar fails with ErrReadOnly.
package cookie

import (
	"context"
	"errors"
	"net/http"
)

var (
	// ErrNoJar is returned when the context carries no cookie jar.
	ErrNoJar = errors.New("cookie: no jar in context")

	// ErrReadOnly is returned when writing through a read-only jar.
	ErrReadOnly = errors.New("cookie: jar is read-only")
)

type jarContextKey struct{}

// Jar reads cookies from one request and writes them to its response.
type Jar struct {
	r        *http.Request
	w        http.ResponseWriter
	writable bool
}

// NewJar builds a jar for the request/response pair.
func NewJar(r *http.Request, w http.ResponseWriter, writable bool) *Jar {
	return &Jar{r: r, w: w, writable: writable}
}

// Get returns the cookie value, or false if it is not present.
func (j *Jar) Get(name string) (string, bool) {
	c, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Set appends a Set-Cookie header to the response.
func (j *Jar) Set(c *http.Cookie) error {
	if !j.writable {
		return ErrReadOnly
	}
	http.SetCookie(j.w, c)
	return nil
}

// Writable reports whether Set is allowed.
func (j *Jar) Writable() bool {
	return j.writable
}

// NewContext returns a copy of ctx carrying jar.
func NewContext(ctx context.Context, jar *Jar) context.Context {
	return context.WithValue(ctx, jarContextKey{}, jar)
}

// FromContext returns the jar stored in ctx.
func FromContext(ctx context.Context) (*Jar, error) {
	jar, ok := ctx.Value(jarContextKey{}).(*Jar)
	if !ok || jar == nil {
		return nil, ErrNoJar
	}
	return jar, nil
}

// WritableMethod reports whether requests with this method may set cookies.
func WritableMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
