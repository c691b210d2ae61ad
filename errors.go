package dewey

import (
	"fmt"
)

// ErrorKind classifies an *Error. The set is closed: every error produced by
// operation parsing or by Do carries exactly one of these kinds.
type ErrorKind string

const (
	// KindDecode marks a success response whose body did not match the
	// expected shape. The underlying JSON error is available via Unwrap.
	KindDecode ErrorKind = "decode_error"

	// KindAPI marks a structured error returned by the engine. Code, Type
	// and Link carry the engine's diagnostics.
	KindAPI ErrorKind = "api_error"

	// KindUnexpectedAPI marks a non-success response whose error body did
	// not match the documented {message, code, type, link} shape. A
	// malformed error body never surfaces as a raw decode failure.
	KindUnexpectedAPI ErrorKind = "unexpected_api_error"

	// KindTransport wraps a failure from the caller's transport. The
	// library does not interpret it; Unwrap returns the original error.
	KindTransport ErrorKind = "transport_error"
)

// Error is the single error type of this package. Use errors.As to recover
// it, then switch on Kind.
type Error struct {
	Kind    ErrorKind
	Message string

	// Code, Type and Link are set only for KindAPI.
	Code string
	Type string
	Link string

	cause error
}

func (e *Error) Error() string {
	if e.Kind == KindAPI {
		return fmt.Sprintf("dewey: %s: %s (code %s)", e.Kind, e.Message, e.Code)
	}
	return fmt.Sprintf("dewey: %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

func newDecodeError(err error) *Error {
	return &Error{Kind: KindDecode, Message: err.Error(), cause: err}
}

func newAPIError(body apiErrorBody) *Error {
	return &Error{
		Kind:    KindAPI,
		Message: body.Message,
		Code:    body.Code,
		Type:    body.Type,
		Link:    body.Link,
	}
}

func newUnexpectedAPIError(status int, cause error) *Error {
	return &Error{
		Kind:    KindUnexpectedAPI,
		Message: fmt.Sprintf("status %d with unrecognized error body", status),
		cause:   cause,
	}
}

func newTransportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error(), cause: err}
}
