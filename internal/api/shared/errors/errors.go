package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/feral-file/trait-inventory/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeConflict         ErrorCode = "conflict"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeForbidden        ErrorCode = "forbidden"
	ErrCodeRateLimited      ErrorCode = "rate_limited"

	// Server errors (5xx)
	ErrCodeInternalError      ErrorCode = "internal_error"
	ErrCodeServiceUnavailable ErrorCode = "service_unavailable"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewNotFoundError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewConflictError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeConflict,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewValidationError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: strings.Join(details, ", "),
	}
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewRateLimitedError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeRateLimited,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewInternalError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInternalError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewServiceUnavailableError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeServiceUnavailable,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

// FromDomainError maps an error returned by the inventory, ledger or store
// to an HTTP status and a response body
func FromDomainError(err error) (int, *APIError) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return statusOf(apiErr.Code), apiErr
	}

	switch {
	case errors.Is(err, domain.ErrTraitNotFound):
		return http.StatusNotFound, NewNotFoundError("Trait not found")
	case errors.Is(err, domain.ErrReservationNotFound):
		return http.StatusNotFound, NewNotFoundError("Reservation not found")
	case errors.Is(err, domain.ErrPurchaseNotFound):
		return http.StatusNotFound, NewNotFoundError("Purchase not found")

	case errors.Is(err, domain.ErrTraitInactive):
		return http.StatusConflict, NewConflictError("Trait is not for sale")
	case errors.Is(err, domain.ErrInsufficientInventory):
		return http.StatusConflict, NewConflictError("Insufficient inventory")
	case errors.Is(err, domain.ErrReservationExpired):
		return http.StatusConflict, NewConflictError("Reservation is no longer active")
	case errors.Is(err, domain.ErrReservationConflict):
		return http.StatusConflict, NewConflictError("Reservation was created concurrently")
	case errors.Is(err, domain.ErrDuplicateSignature):
		return http.StatusConflict, NewConflictError("Transaction signature already recorded")
	case errors.Is(err, domain.ErrSignatureAlreadySet):
		return http.StatusConflict, NewConflictError("Purchase already has a transaction signature")
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		return http.StatusConflict, NewConflictError("Invalid purchase status transition")
	case errors.Is(err, domain.ErrSupplyExhausted):
		return http.StatusConflict, NewConflictError("Trait supply exhausted")

	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, NewValidationError(err.Error())
	case errors.Is(err, domain.ErrReservationLimitExceeded):
		return http.StatusTooManyRequests, NewRateLimitedError("Too many active reservations for wallet")
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, NewRateLimitedError("Too many reservation requests")

	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, NewServiceUnavailableError("Storage unavailable")
	}

	return http.StatusInternalServerError, NewInternalError("Internal server error")
}

func statusOf(code ErrorCode) int {
	switch code {
	case ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
