package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failure with an HTTP status classification. Services raise it at
// the point of detection; the gin boundary maps it to a response exactly once.
type Error struct {
	Status  int
	Message string
	Headers map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// As extracts an *Error from an error chain
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// InvalidCredentials covers bad login attempts. Absent user, inactive user
// and password mismatch are indistinguishable to the caller.
func InvalidCredentials(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// InvalidToken covers password-reset token failures (400-class)
func InvalidToken(message string, err error) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Err: err}
}

// InvalidBearerToken covers refresh and access token failures. The response
// carries a Bearer challenge.
func InvalidBearerToken(message string, err error) *Error {
	return &Error{
		Status:  http.StatusForbidden,
		Message: message,
		Headers: map[string]string{"WWW-Authenticate": "Bearer"},
		Err:     err,
	}
}

// InactiveUser covers deactivated accounts
func InactiveUser(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// DuplicatingUser covers email collisions at account creation
func DuplicatingUser(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// DuplicatingUserConflict covers email collisions at account update
func DuplicatingUserConflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// InvalidPassword covers wrong current password or an unchanged new password
func InvalidPassword(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// NotEnoughPrivileges covers role violations
func NotEnoughPrivileges(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// ForbiddenAction covers self-action violations such as admin self-deletion
func ForbiddenAction(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// NotFound covers missing records
func NotFound(obj string) *Error {
	return &Error{Status: http.StatusNotFound, Message: obj + " not found"}
}

// ActionUnavailable covers unconfigured subsystems such as SMTP
func ActionUnavailable(message string) *Error {
	return &Error{Status: http.StatusNotImplemented, Message: message}
}
