package core

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrIdentityMissing indicates that identity resolution produced an
	// empty/blank result; the user must re-enter via the host.
	ErrIdentityMissing = errors.New("identity not provided")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// AuthError indicates that a credential for the remote grade-book service
// could not be obtained, or was rejected twice in a row.
type AuthError struct {
	Reason string
	Err    error
}

func NewAuthError(reason string, err ...error) error {
	e := &AuthError{Reason: reason}
	if len(err) > 0 {
		e.Err = err[0]
	}
	return e
}

func (err AuthError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("%s: %v", err.Reason, err.Err)
	}
	return err.Reason
}

func (err AuthError) Unwrap() error { return err.Err }

// TransportError indicates that a request was sent but no response was
// received (network failure or timeout).
type TransportError struct {
	Err error
}

func NewTransportError(err error) error {
	return &TransportError{Err: err}
}

func (err TransportError) Error() string {
	return fmt.Sprintf("server unreachable: %v", err.Err)
}

func (err TransportError) Unwrap() error { return err.Err }

// ServiceError indicates a response received with a failure status.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func NewServiceError(status int, detail string) error {
	if detail == "" {
		detail = fmt.Sprintf("error %d", status)
	}
	return &ServiceError{StatusCode: status, Detail: detail}
}

func (err ServiceError) Error() string { return err.Detail }

// ErrorMessage derives a user-facing message from any remote-call failure.
// Priority: structured server detail, then a transport-level "no response"
// message, then the raw failure description.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	switch cause := errors.Cause(err).(type) {
	case *ServiceError:
		return cause.Detail
	case *TransportError:
		return "The server is not responding. Check your internet connection."
	case *AuthError:
		return "Could not access the grade book service."
	default:
		return err.Error()
	}
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
