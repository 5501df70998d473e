package apperrors

import (
	"errors"
	"fmt"
)

// Code identifies the class of failure so handlers (and clients) can tell
// a rejected payment from an unreachable oracle, or a conflict from bad input.
type Code string

const (
	CodeValidation        Code = "validation_error"
	CodeAuth              Code = "auth_error"
	CodePermission        Code = "permission_error"
	CodeNotFound          Code = "not_found"
	CodeConflict          Code = "conflict"
	CodeInvalidState      Code = "invalid_state"
	CodePaymentInvalid    Code = "payment_invalid"
	CodeOracleUnavailable Code = "oracle_unavailable"
	CodeInsufficientData  Code = "insufficient_data"
)

type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is match two *Error values by code, so sentinels like
// apperrors.Conflict("...") compare against wrapped service errors.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newError(CodeValidation, format, args...)
}

func Auth(format string, args ...interface{}) *Error {
	return newError(CodeAuth, format, args...)
}

func Permission(format string, args ...interface{}) *Error {
	return newError(CodePermission, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(CodeNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newError(CodeConflict, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return newError(CodeInvalidState, format, args...)
}

func PaymentInvalid(format string, args ...interface{}) *Error {
	return newError(CodePaymentInvalid, format, args...)
}

func OracleUnavailable(err error) *Error {
	return &Error{Code: CodeOracleUnavailable, Message: "transaction oracle unavailable", cause: err}
}

func InsufficientData(format string, args ...interface{}) *Error {
	return newError(CodeInsufficientData, format, args...)
}

// Wrap attaches a cause to a taxonomy error without losing the code.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// CodeOf extracts the taxonomy code, or "" for untyped errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
