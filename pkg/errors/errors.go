/*
Package errors defines the application error vocabulary: stable error codes
the API layer maps to HTTP statuses, and the translation from domain errors
to those codes. Domain packages stay free of transport concerns; this is the
single place where their sentinels meet the outside world.
*/
package errors

import (
	"errors"
	"fmt"

	"cafeledger/domain/loyalty"
	"cafeledger/domain/order"
	"cafeledger/domain/shared"
	"cafeledger/domain/stock"
)

// ErrorCode stable machine-readable error code.
type ErrorCode string

const (
	// Generic codes
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// Business codes
	CodeOrderNotFound           ErrorCode = "ORDER_NOT_FOUND"
	CodeInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	CodeConcurrentModify        ErrorCode = "CONCURRENT_MODIFICATION"
	CodeInsufficientStock       ErrorCode = "INSUFFICIENT_STOCK"
	CodeNotAvailable            ErrorCode = "NOT_AVAILABLE"
	CodeInsufficientPoints      ErrorCode = "INSUFFICIENT_POINTS"
	CodeTierRequirementNotMet   ErrorCode = "TIER_REQUIREMENT_NOT_MET"
	CodeRewardNotFound          ErrorCode = "REWARD_NOT_FOUND"
	CodeMaxTierReached          ErrorCode = "MAX_TIER_REACHED"
)

// AppError application-level error carrying its code and a user-safe
// message.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Is checks whether err carries a specific code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError translates a domain error into an application error by its
// sentinel. The original error is kept in the chain for logging; the message
// shown to the caller is the domain error's own message, which is written to
// be user-safe.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return Wrap(err, CodeOrderNotFound, err.Error())
	case errors.Is(err, order.ErrConcurrentModification):
		return Wrap(err, CodeConcurrentModify, err.Error())
	case errors.Is(err, order.ErrInvalidStatusTransition):
		return Wrap(err, CodeInvalidStatusTransition, err.Error())
	case errors.Is(err, order.ErrEmptyOrderItems),
		errors.Is(err, order.ErrInvalidQuantity):
		return Wrap(err, CodeValidation, err.Error())

	case errors.Is(err, stock.ErrInsufficientStock):
		return Wrap(err, CodeInsufficientStock, err.Error())

	case errors.Is(err, loyalty.ErrInsufficientPoints):
		return Wrap(err, CodeInsufficientPoints, err.Error())
	case errors.Is(err, loyalty.ErrTierRequirementNotMet):
		return Wrap(err, CodeTierRequirementNotMet, err.Error())
	case errors.Is(err, loyalty.ErrRewardNotFound):
		return Wrap(err, CodeRewardNotFound, err.Error())
	case errors.Is(err, loyalty.ErrRewardNotAvailable):
		return Wrap(err, CodeNotAvailable, err.Error())
	case errors.Is(err, loyalty.ErrMaxTierReached):
		return Wrap(err, CodeMaxTierReached, err.Error())
	case errors.Is(err, loyalty.ErrAccountNotFound):
		return Wrap(err, CodeNotFound, err.Error())

	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, err.Error())
	case errors.Is(err, shared.ErrInvalidInput):
		return Wrap(err, CodeValidation, err.Error())
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, err.Error())
	case errors.Is(err, shared.ErrNotAvailable):
		return Wrap(err, CodeNotAvailable, err.Error())
	}

	return Wrap(err, CodeInternal, "internal server error")
}
