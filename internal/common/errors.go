// Package common defines the tagged error type shared by all service layers.
// Every operation that crosses a service boundary fails with an *Error carrying
// a machine-readable code and a human-readable title; transport layers map the
// code to a status without inspecting messages. Callers match with CodeOf or
// errors.As.
package common

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a failure class independent of transport.
type ErrorCode string

const (
	CodeInvalidModel   ErrorCode = "InvalidModel"
	CodeInvalidInput   ErrorCode = "InvalidInput"
	CodeInvalidEmail   ErrorCode = "InvalidEmail"
	CodeDuplicateEmail ErrorCode = "DuplicateEmail"

	CodeInvalidCredentials ErrorCode = "InvalidCredentials"

	CodeInvalidRefreshToken ErrorCode = "InvalidRefreshToken"
	CodeInvalidAccessToken  ErrorCode = "InvalidAccessToken"
	CodeUserIDNotFound      ErrorCode = "UserIdNotFound"
	CodeUserNotFound        ErrorCode = "UserNotFound"

	CodeTokenGenerationFailed        ErrorCode = "TokenGenerationFailed"
	CodeRefreshTokenGenerationFailed ErrorCode = "RefreshTokenGenerationFailed"
	CodeConfigurationError           ErrorCode = "ConfigurationError"
	CodeUnexpectedError              ErrorCode = "UnexpectedError"

	// Password policy codes reported by the identity service, one per
	// violated rule.
	CodePasswordTooShort                ErrorCode = "PasswordTooShort"
	CodePasswordRequiresUpper           ErrorCode = "PasswordRequiresUpper"
	CodePasswordRequiresLower           ErrorCode = "PasswordRequiresLower"
	CodePasswordRequiresDigit           ErrorCode = "PasswordRequiresDigit"
	CodePasswordRequiresNonAlphanumeric ErrorCode = "PasswordRequiresNonAlphanumeric"

	// Household/list surface.
	CodeNotFound           ErrorCode = "NotFound"
	CodeForbidden          ErrorCode = "Forbidden"
	CodeHouseholdRequired  ErrorCode = "HouseholdRequired"
	CodeAlreadyInHousehold ErrorCode = "AlreadyInHousehold"
)

// Error is the failure value returned by service operations.
type Error struct {
	Code  ErrorCode
	Title string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Title, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Title)
}

func (e *Error) Unwrap() error { return e.cause }

// E builds an Error with the given code and title.
func E(code ErrorCode, title string) *Error {
	return &Error{Code: code, Title: title}
}

// Wrap builds an Error that carries the underlying cause for logs while
// exposing only code and title to callers.
func Wrap(code ErrorCode, title string, cause error) *Error {
	return &Error{Code: code, Title: title, cause: cause}
}

// CodeOf extracts the ErrorCode from err, or "" when err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// Repository-level sentinels; repositories return them so that services can
// distinguish absence and constraint violations from infrastructure failure.
var (
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("duplicate")
)
