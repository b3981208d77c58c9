package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal server error")
	ErrInvalidInput = errors.New("invalid input")
)

// Vote rejections. Their messages are returned to clients verbatim.
var (
	ErrVotingClosed      = New(http.StatusForbidden, "The voting has closed", nil)
	ErrUnsupportedMethod = New(http.StatusForbidden, "Reaction Method not found!", nil)
	ErrVoteLimitReached  = New(http.StatusForbidden, "vote limit reached", nil)
	ErrVoteInProgress    = New(http.StatusConflict, "another vote from this user is being processed", nil)
	ErrRuleInUse         = New(http.StatusConflict, "reaction rule is used by reaction instances", nil)
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	// Default to internal server error
	return http.StatusInternalServerError
}

// Message returns the client facing text for err. For AppError values the
// message is preferred over the wrapped cause.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}
