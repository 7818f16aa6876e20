// Package resp writes JSON responses in one envelope shape:
//
//	{"code": "not_found", "message": "...", "errors": {...}}
//
// Successful responses carry the payload itself.
package resp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ncobase/pagination/data/search"
	"github.com/ncobase/pagination/ecode"
	"github.com/ncobase/pagination/validator"
)

// Error codes carried by failure responses
const (
	CodeInvalidArgument = "invalid_argument"
	CodeParse           = "parse_error"
	CodeNotFound        = "not_found"
	CodeBackend         = "backend_error"
	CodeUnavailable     = "unavailable"
	CodeServer          = "server_error"
)

// Exception represents the response structure.
type Exception struct {
	Status  int    `json:"-"`                 // HTTP status
	Code    string `json:"code,omitempty"`    // Business code
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Validation errors
	Debug   string `json:"debug,omitempty"`   // Backend diagnostic
}

// Success writes data with status 200
func Success(w http.ResponseWriter, data any) {
	WithStatusCode(w, http.StatusOK, data)
}

// WithStatusCode writes data with statusCode
func WithStatusCode(w http.ResponseWriter, statusCode int, data any) {
	if data == nil {
		data = map[string]any{"message": "ok"}
	}
	writeJSON(w, statusCode, data)
}

// Fail writes r. A nil r is a generic server error.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = InternalServer(http.StatusText(http.StatusInternalServerError))
	}
	status := r.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, r)
}

// BadRequest indicates a bad request.
func BadRequest(message string, errs ...any) *Exception {
	return newException(http.StatusBadRequest, CodeInvalidArgument, message, errs...)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string) *Exception {
	return newException(http.StatusNotFound, CodeNotFound, message)
}

// InternalServer indicates a server error.
func InternalServer(message string) *Exception {
	return newException(http.StatusInternalServerError, CodeServer, message)
}

// ServiceUnavailable indicates that no backend can serve the request.
func ServiceUnavailable(message string) *Exception {
	return newException(http.StatusServiceUnavailable, CodeUnavailable, message)
}

func newException(status int, code, message string, errs ...any) *Exception {
	e := &Exception{Status: status, Code: code, Message: message}
	if len(errs) > 0 {
		e.Errors = errs[0]
	}
	return e
}

// FromError maps err onto a failure response
func FromError(err error) *Exception {
	var (
		fieldErrs validator.Errors
		backend   *ecode.BackendError
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &fieldErrs):
		return BadRequest("validation failed", map[string]string(fieldErrs))
	case errors.Is(err, ecode.ErrParse):
		return newException(http.StatusBadRequest, CodeParse, err.Error())
	case errors.Is(err, ecode.ErrInvalidArgument):
		return BadRequest(err.Error())
	case errors.Is(err, ecode.ErrNotFound):
		return NotFound(err.Error())
	case errors.As(err, &backend):
		e := newException(http.StatusBadGateway, CodeBackend, backend.Message)
		e.Debug = backend.Debug
		return e
	case errors.Is(err, search.ErrNoEngineAvailable):
		return ServiceUnavailable(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return newException(http.StatusGatewayTimeout, CodeUnavailable, err.Error())
	default:
		return InternalServer(err.Error())
	}
}

// Error writes the failure response for err
func Error(w http.ResponseWriter, err error) {
	Fail(w, FromError(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(InternalServer("failed to encode response"))
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
