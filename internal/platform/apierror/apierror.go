package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies every error the API layer is allowed to surface. Storage
// and adapter failures are mapped onto one of these before they reach a
// client; raw driver errors never leave the handler boundary.
type Kind string

const (
	KindValidation          Kind = "validation_error"
	KindUnauthorized        Kind = "unauthorized"
	KindForbidden           Kind = "forbidden"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUpstreamRateLimited Kind = "upstream_rate_limited"
	KindInternal            Kind = "internal_error"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error   { return New(KindValidation, msg) }
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }
func Forbidden(msg string) *Error    { return New(KindForbidden, msg) }
func NotFound(msg string) *Error     { return New(KindNotFound, msg) }
func Conflict(msg string) *Error     { return New(KindConflict, msg) }

func Internal(msg string, err error) *Error {
	return Wrap(KindInternal, msg, err)
}

// KindOf extracts the classification from err, defaulting to internal for
// anything unclassified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// HTTPStatus maps the taxonomy onto response codes.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstreamUnavailable:
		return http.StatusBadGateway
	case KindUpstreamRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the client-safe message. Upstream and internal detail
// stays server-side; the handler logs the full chain with the request id.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindUpstreamUnavailable:
		return "upstream data source unavailable"
	case KindUpstreamRateLimited:
		return "upstream data source rate limited"
	case KindInternal:
		return "internal server error"
	default:
		var ae *Error
		if errors.As(err, &ae) {
			return ae.Message
		}
		return "internal server error"
	}
}
