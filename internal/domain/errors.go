package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTraitNotFound is returned when the trait does not exist in the catalog
	ErrTraitNotFound = errors.New("trait not found")

	// ErrTraitInactive is returned when the trait exists but is not for sale
	ErrTraitInactive = errors.New("trait inactive")

	// ErrInsufficientInventory is returned when no unit of the trait is left to reserve
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrReservationNotFound is returned when a reservation does not exist
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrReservationExpired is returned when a reservation is no longer active,
	// either because its TTL elapsed or because it already left the reserved state
	ErrReservationExpired = errors.New("reservation expired")

	// ErrReservationConflict is returned when an active reservation for the same
	// trait, wallet and asset was committed concurrently
	ErrReservationConflict = errors.New("reservation conflict")

	// ErrReservationLimitExceeded is returned when a wallet holds too many active reservations
	ErrReservationLimitExceeded = errors.New("reservation limit exceeded")

	// ErrPurchaseNotFound is returned when a purchase does not exist
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrInvalidStatusTransition is returned when a purchase status change is not allowed
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrDuplicateSignature is returned when a transaction signature is already
	// recorded on another purchase
	ErrDuplicateSignature = errors.New("duplicate transaction signature")

	// ErrSignatureAlreadySet is returned when a purchase already carries a different signature
	ErrSignatureAlreadySet = errors.New("transaction signature already set")

	// ErrSupplyExhausted is returned when fulfilling a purchase would drive supply below zero
	ErrSupplyExhausted = errors.New("trait supply exhausted")

	// ErrRateLimited is returned when a wallet exceeds its reservation request rate
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidInput is returned when a request is malformed
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageUnavailable is matched by every infrastructure failure of the store
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// StorageError wraps a driver or connection failure of the store.
// errors.Is(err, ErrStorageUnavailable) reports true for it.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as a storage failure of operation op
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStorageUnavailable
func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// IsBusinessError reports whether err is an expected, recoverable outcome that
// callers branch on rather than an infrastructure failure
func IsBusinessError(err error) bool {
	switch {
	case errors.Is(err, ErrTraitNotFound),
		errors.Is(err, ErrTraitInactive),
		errors.Is(err, ErrInsufficientInventory),
		errors.Is(err, ErrReservationNotFound),
		errors.Is(err, ErrReservationExpired),
		errors.Is(err, ErrReservationConflict),
		errors.Is(err, ErrReservationLimitExceeded),
		errors.Is(err, ErrPurchaseNotFound),
		errors.Is(err, ErrInvalidStatusTransition),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrInvalidInput):
		return true
	}
	return false
}

// RateLimitError is returned when a wallet is throttled. errors.Is(err, ErrRateLimited) reports true for it.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// Is reports whether target is ErrRateLimited
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
