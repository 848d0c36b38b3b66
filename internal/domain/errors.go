package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is the externally visible classification of a failure.
type ErrorCode string

const (
	CodeValidation           ErrorCode = "VALIDATION_ERROR"
	CodeDuplicateEmail       ErrorCode = "DUPLICATE_EMAIL"
	CodeInvalidCredentials   ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthenticated      ErrorCode = "UNAUTHENTICATED"
	CodeOldPasswordIncorrect ErrorCode = "OLD_PASSWORD_INCORRECT"
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeStoreUnavailable     ErrorCode = "STORE_UNAVAILABLE"
	CodeServerBusy           ErrorCode = "SERVER_BUSY"
	CodeInternal             ErrorCode = "INTERNAL"
)

// Error is a domain-level error. Message is safe to return to clients, Err is not.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches any *Error with the same code and message, so a sentinel still
// matches after WrapError adds a cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

var (
	ErrEmailTaken           = NewError(CodeDuplicateEmail, "email already registered")
	ErrInvalidCredentials   = NewError(CodeInvalidCredentials, "invalid email or password")
	ErrUnauthenticated      = NewError(CodeUnauthenticated, "unauthenticated")
	ErrOldPasswordIncorrect = NewError(CodeOldPasswordIncorrect, "old password is incorrect")
	ErrUserNotFound         = NewError(CodeNotFound, "user not found")
)

func IsDomainError(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the outermost *Error in err's chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return CodeInternal
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Message
	}
	return "internal error"
}
