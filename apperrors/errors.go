// errors.go - Application error kinds and their HTTP mapping

package apperrors

import (
	"errors"
	"net/http"
)

// Error is an expected, user-facing failure. Anything that is not an *Error
// is treated as internal and never shown to the caller.
type Error struct {
	Status  int    // HTTP status code
	Code    string // Stable machine-readable code
	Message string // Human-readable message
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Code so that errors built with Invalid or New compare equal
// to the sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrUnauthorized       = &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "not authorized"}
	ErrForbidden          = &Error{Status: http.StatusForbidden, Code: "forbidden", Message: "admin access required"}
	ErrInvalidCredentials = &Error{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "invalid credentials"}
	ErrSlotTaken          = &Error{Status: http.StatusConflict, Code: "slot_taken", Message: "time slot already booked"}
	ErrEmailTaken         = &Error{Status: http.StatusConflict, Code: "email_taken", Message: "user already exists"}
	ErrInvalidInterval    = &Error{Status: http.StatusBadRequest, Code: "invalid_interval", Message: "start must be before end"}
	ErrInvalidTime        = &Error{Status: http.StatusBadRequest, Code: "invalid_time", Message: "times must be ISO-8601 instants"}
	ErrWrongPassword      = &Error{Status: http.StatusBadRequest, Code: "wrong_password", Message: "current password is incorrect"}
	ErrBadRequest         = &Error{Status: http.StatusBadRequest, Code: "bad_request", Message: "bad request"}
	ErrRoomNotFound       = &Error{Status: http.StatusNotFound, Code: "room_not_found", Message: "room not found"}
	ErrUserNotFound       = &Error{Status: http.StatusNotFound, Code: "user_not_found", Message: "user not found"}
	ErrBookingsSuspended  = &Error{Status: http.StatusServiceUnavailable, Code: "bookings_suspended", Message: "bookings are currently suspended"}
	ErrInternal           = &Error{Status: http.StatusInternalServerError, Code: "internal", Message: "internal server error"}
)

// Invalid returns a bad-request error carrying a specific message.
func Invalid(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: ErrBadRequest.Code, Message: message}
}

// GetStatus maps err to an HTTP status; unknown errors are 500.
func GetStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Public returns the error to expose to callers: the *Error itself, or
// ErrInternal for anything unexpected.
func Public(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal
}

// IsInternal reports whether err would be surfaced as a generic failure.
func IsInternal(err error) bool {
	return Public(err) == ErrInternal
}
