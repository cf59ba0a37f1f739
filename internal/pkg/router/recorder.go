package router

import (
	"bufio"
	"bytes"
	"net"
	"net/http"
)

// recorder captures the status, size and the head of the body of a response
// for logging, and the handler error for the span.
type recorder struct {
	http.ResponseWriter

	status int
	size   int
	head   bytes.Buffer
	capped bool
	err    error
}

func (w *recorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *recorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if room := maxLoggedBody - w.head.Len(); room < len(p) {
		w.head.Write(p[:max(room, 0)])
		w.capped = true
	} else {
		w.head.Write(p)
	}

	n, err := w.ResponseWriter.Write(p)
	w.size += n
	return n, err
}

// SetError is called by the endpoint adapter when a handler fails.
func (w *recorder) SetError(err error) { w.err = err }

func (w *recorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *recorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *recorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *recorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}
