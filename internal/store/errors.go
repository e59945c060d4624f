package store

import (
	"fmt"
	"net/http"
)

// Error is a storage error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
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

// Is matches store errors by status code, so a customized sentinel
// (WithMessage, WithCause) still satisfies errors.Is against the sentinel it
// was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

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

	ErrForbidden = &Error{
		Code:    http.StatusForbidden,
		Message: "forbidden",
	}
)

// Per-aggregate sentinels.
var (
	ErrUserNotFound         = ErrNotFound.WithMessage("user not found")
	ErrEmailExists          = ErrAlreadyExists.WithMessage("email already in use")
	ErrSessionNotFound      = ErrNotFound.WithMessage("session not found")
	ErrSessionExpired       = ErrUnauthorized.WithMessage("session expired")
	ErrBookNotFound         = ErrNotFound.WithMessage("book not found")
	ErrISBNExists           = ErrAlreadyExists.WithMessage("book with this ISBN already listed")
	ErrLikeExists           = ErrAlreadyExists.WithMessage("book already liked")
	ErrNotificationNotFound = ErrNotFound.WithMessage("notification not found")
	ErrBarterNotFound       = ErrNotFound.WithMessage("barter request not found")
	ErrActiveBarterExists   = ErrAlreadyExists.WithMessage("an active barter request already exists for this offer")
	ErrConversationNotFound = ErrNotFound.WithMessage("conversation not found")
)
