package facet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for input binding.
var (
	ErrBindPath   = errors.New("bind path")
	ErrBindQuery  = errors.New("bind query")
	ErrBindHeader = errors.New("bind header")
	ErrBindBody   = errors.New("bind body")
)

// StatusCoder is implemented by errors or outputs that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// Problem is an RFC 9457 problem details document. It is the canonical
// error shape produced by the dispatcher, rendered through whichever
// codec the client negotiated.
//
//nolint:errname // RFC 9457 standard name
type Problem struct {
	Type     string       `json:"type,omitempty" yaml:"type,omitempty" xml:"type,omitempty"`
	Title    string       `json:"title,omitempty" yaml:"title,omitempty" xml:"title,omitempty"`
	Status   int          `json:"status" yaml:"status" xml:"status"`
	Detail   string       `json:"detail,omitempty" yaml:"detail,omitempty" xml:"detail,omitempty"`
	Instance string       `json:"instance,omitempty" yaml:"instance,omitempty" xml:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty" yaml:"errors,omitempty" xml:"errors,omitempty"`
}

// Error returns the detail message (or title if detail is empty).
func (p *Problem) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status code.
func (p *Problem) StatusCode() int { return p.Status }

// FieldError describes a single field validation failure.
type FieldError struct {
	Field   string `json:"field" yaml:"field" xml:"field"`
	Message string `json:"message" yaml:"message" xml:"message"`
	Value   any    `json:"value,omitempty" yaml:"value,omitempty" xml:"value,omitempty"`
}

// StatusError is an error with an HTTP status code.
type StatusError struct {
	Status  int    `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

// Error returns the error message.
func (e *StatusError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &StatusError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &StatusError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. Context deadline
// errors map to 504; anything else without a StatusCoder maps to 500.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// problemFrom converts any error into a Problem. Errors that already are
// a Problem pass through unchanged.
func problemFrom(err error) *Problem {
	var p *Problem
	if errors.As(err, &p) {
		return p
	}

	status := ErrorStatus(err)
	return &Problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: err.Error(),
	}
}
