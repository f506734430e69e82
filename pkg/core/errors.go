package core

import (
	"errors"
	"fmt"
)

// Error is the canonical error shape surfaced by the gateway and the
// console client.
type Error struct {
	Type          ErrorType `json:"type"`
	Message       string    `json:"message"`
	Param         string    `json:"param,omitempty"`
	Code          string    `json:"code,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
	UpstreamError any       `json:"upstream_error,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorType categorizes errors.
type ErrorType string

const (
	ErrInvalidRequest      ErrorType = "invalid_request_error"
	ErrAuthentication      ErrorType = "authentication_error"
	ErrPermission          ErrorType = "permission_error"
	ErrNotFound            ErrorType = "not_found_error"
	ErrRateLimit           ErrorType = "rate_limit_error"
	ErrAPI                 ErrorType = "api_error"
	ErrOverloaded          ErrorType = "overloaded_error"
	ErrUpstream            ErrorType = "upstream_error"
	ErrInsufficientBalance ErrorType = "insufficient_balance_error"
)

// CodeInsufficientBalance is the fixed code attached to balance-exhausted
// errors regardless of how the upstream phrased them.
const CodeInsufficientBalance = "insufficient_balance"

// NewInvalidRequestError creates an invalid request error.
func NewInvalidRequestError(message string) *Error {
	return &Error{
		Type:    ErrInvalidRequest,
		Message: message,
	}
}

// NewInvalidRequestErrorWithParam creates an invalid request error with a parameter.
func NewInvalidRequestErrorWithParam(message, param string) *Error {
	return &Error{
		Type:    ErrInvalidRequest,
		Message: message,
		Param:   param,
	}
}

// NewAuthenticationError creates an authentication error.
func NewAuthenticationError(message string) *Error {
	return &Error{
		Type:    ErrAuthentication,
		Message: message,
	}
}

// NewAPIError creates a generic API error.
func NewAPIError(message string) *Error {
	return &Error{
		Type:    ErrAPI,
		Message: message,
	}
}

// NewUpstreamError creates an error describing an upstream service failure,
// preserving the upstream payload.
func NewUpstreamError(message string, upstream any) *Error {
	return &Error{
		Type:          ErrUpstream,
		Message:       message,
		UpstreamError: upstream,
	}
}

// NewInsufficientBalanceError creates the distinguished balance-exhausted
// error.
func NewInsufficientBalanceError(message string) *Error {
	return &Error{
		Type:    ErrInsufficientBalance,
		Message: message,
		Code:    CodeInsufficientBalance,
	}
}

// IsInsufficientBalance reports whether err is (or wraps) the distinguished
// balance-exhausted condition.
func IsInsufficientBalance(err error) bool {
	var coreErr *Error
	if errors.As(err, &coreErr) && coreErr != nil {
		return coreErr.Type == ErrInsufficientBalance || coreErr.Code == CodeInsufficientBalance
	}
	return false
}
