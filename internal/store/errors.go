package store

import (
	"fmt"
	"net/http"
)

// Error is a domain error with an HTTP-shaped status code. The codes
// let the (out of scope) editor layer translate failures into user
// messages without string matching.
type Error struct {
	Code    int    // Status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:    e.Code,
		Message: msg,
		Err:     e.Err,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}

	ErrUnauthorized = &Error{
		Code:    http.StatusUnauthorized,
		Message: "unauthorized",
	}
)

// Typed not-found errors so callers can distinguish which document was
// missing in a multi-document operation.
var (
	ErrNoteNotFound = ErrNotFound.WithMessage("note not found")
	ErrTagNotFound  = ErrNotFound.WithMessage("tag not found")
	ErrUserNotFound = ErrNotFound.WithMessage("user not found")
)
