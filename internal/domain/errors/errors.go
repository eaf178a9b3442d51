package errors

import (
	"errors"
	"fmt"
)

var (
	// Plan errors
	ErrPlanNotFound = errors.New("subscription plan not found")
	ErrPlanInactive = errors.New("subscription plan is inactive")

	// Subscription errors
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadySubscribed    = errors.New("user already has an active subscription")

	// Gateway errors
	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayTimeout     = errors.New("payment gateway request timeout")

	// Lock errors
	ErrLockNotAcquired = errors.New("failed to acquire lock")
	ErrLockNotHeld     = errors.New("lock not held")

	// Outbox errors
	ErrUnknownMessageKind = errors.New("unknown outbox message kind")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)

// IsRetryable reports whether the caller may safely retry the operation that
// produced err. Lock contention and gateway unavailability are transient;
// logic and not-found errors are not.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockNotAcquired) ||
		errors.Is(err, ErrGatewayUnavailable) ||
		errors.Is(err, ErrGatewayTimeout)
}

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
