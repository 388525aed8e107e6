package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alnah/go-mdlatex"
)

// Sentinel errors for server operations.
var (
	ErrPageTemplate   = errors.New("editor page template failed")
	ErrBodyTooLarge   = errors.New("request body too large")
	ErrUnknownMessage = errors.New("unknown message type")
)

// httpError carries a status code for errorHandler.
type httpError struct {
	code int
	err  error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &httpError{code: http.StatusBadRequest, err: err}
}

// errorHandler adapts handlers that return errors.
type errorHandler struct {
	logger  *slog.Logger
	handler func(w http.ResponseWriter, r *http.Request) error
}

func (h errorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rw := &headerResponseWriter{ResponseWriter: w}
	err := h.handler(rw, r)
	if err == nil {
		return
	}
	if rw.wroteHeader {
		// Too late to send a different status code.
		h.logger.Warn("request failed after response started", "path", r.URL.Path, "error", err)
		return
	}

	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "status", code, "error", err)
	}
	http.Error(w, fmt.Sprintf("%d %s\n\n%v", code, http.StatusText(code), err), code)
}

// statusFor maps errors to HTTP status codes.
func statusFor(err error) int {
	var he *httpError
	switch {
	case errors.As(err, &he):
		return he.code
	case errors.Is(err, mdlatex.ErrBrowserConnect),
		errors.Is(err, mdlatex.ErrPageCreate),
		errors.Is(err, mdlatex.ErrPageLoad),
		errors.Is(err, mdlatex.ErrPDFGeneration):
		return http.StatusBadGateway
	case errors.Is(err, mdlatex.ErrEditorClosed), errors.Is(err, mdlatex.ErrPoolClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// headerResponseWriter wraps a real http.ResponseWriter and captures
// whether or not the header has been written.
type headerResponseWriter struct {
	http.ResponseWriter

	wroteHeader bool
}

func (rw *headerResponseWriter) Write(p []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(p)
}

func (rw *headerResponseWriter) WriteHeader(code int) {
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}
