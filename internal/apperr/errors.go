// Package apperr defines the domain error taxonomy shared by services,
// middleware and the HTTP error handler. Handlers compare against the
// sentinel values with errors.Is; equality is by error code, so a sentinel
// with an adjusted message or status still matches its base.
package apperr

import "net/http"

type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy carrying a request-specific message.
func (e *Error) WithMessage(message string) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: message}
}

// WithStatus returns a copy surfaced with a different HTTP status.
func (e *Error) WithStatus(status int) *Error {
	return &Error{Status: status, Code: e.Code, Message: e.Message}
}

var (
	ErrValidation         = &Error{http.StatusBadRequest, "VALIDATION_ERROR", "Validation error"}
	ErrUserDuplicated     = &Error{http.StatusConflict, "USER_DUPLICATED", "User with this email already exists"}
	ErrInvalidCredentials = &Error{http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid credentials"}
	ErrUnauthorized       = &Error{http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized"}

	ErrTokenExpired = &Error{http.StatusUnauthorized, "TOKEN_EXPIRED", "Token expired"}
	ErrTokenInvalid = &Error{http.StatusUnauthorized, "TOKEN_INVALID", "Invalid token"}

	ErrAccessTokenExpired  = &Error{http.StatusUnauthorized, "ACCESS_TOKEN_EXPIRED", "Access token expired"}
	ErrAccessTokenMissing  = &Error{http.StatusUnauthorized, "ACCESS_TOKEN_NOT_FOUND", "Access token not found"}
	ErrRefreshTokenExpired = &Error{http.StatusUnauthorized, "REFRESH_TOKEN_EXPIRED", "Refresh token expired"}

	ErrUserNotFound           = &Error{http.StatusBadRequest, "USER_NOT_FOUND", "User not found"}
	ErrContactNotFound        = &Error{http.StatusBadRequest, "CONTACT_NOT_FOUND", "Contact not found or access denied"}
	ErrContactOperationFailed = &Error{http.StatusBadRequest, "CONTACT_OPERATION_FAILED", "Contact operation failed"}

	ErrInternal = &Error{http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"}
)
