package domain

import (
	"fmt"
	"strings"
	"time"
)

// PurchaseEventType is the kind of purchase lifecycle event published to the broker
type PurchaseEventType string

const (
	PurchaseEventCreated       PurchaseEventType = "created"
	PurchaseEventStatusChanged PurchaseEventType = "status_changed"
)

// PurchaseEvent is published after a purchase is created or changes status.
// The transaction confirmation bridge subscribes to these to know which
// purchases to settle on chain.
type PurchaseEvent struct {
	EventID       string            `json:"event_id"`
	Type          PurchaseEventType `json:"type"`
	PurchaseID    string            `json:"purchase_id"`
	ReservationID string            `json:"reservation_id"`
	TraitID       string            `json:"trait_id"`
	WalletAddress string            `json:"wallet_address"`
	AssetID       string            `json:"asset_id"`
	Status        string            `json:"status"`
	TxSignature   *string           `json:"tx_signature,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

// Subject returns the broker subject for the event (e.g. purchases.created)
func (e *PurchaseEvent) Subject() string {
	return fmt.Sprintf("%s.%s", PURCHASE_EVENT_SUBJECT_PREFIX, e.Type)
}

// ConfirmationStatus is the on-chain outcome reported by the transaction confirmation bridge
type ConfirmationStatus string

const (
	ConfirmationStatusBuilt     ConfirmationStatus = "built"
	ConfirmationStatusConfirmed ConfirmationStatus = "confirmed"
	ConfirmationStatusFinalized ConfirmationStatus = "finalized"
	ConfirmationStatusFailed    ConfirmationStatus = "failed"
)

// Valid reports whether the status is one the bridge is expected to send
func (s ConfirmationStatus) Valid() bool {
	switch s {
	case ConfirmationStatusBuilt,
		ConfirmationStatusConfirmed,
		ConfirmationStatusFinalized,
		ConfirmationStatusFailed:
		return true
	}
	return false
}

// TxConfirmationEvent is consumed from the broker; it carries the result of
// submitting a purchase's signed transaction
type TxConfirmationEvent struct {
	PurchaseID  string             `json:"purchase_id"`
	TxSignature string             `json:"tx_signature"`
	Status      ConfirmationStatus `json:"status"`
	Reason      string             `json:"reason,omitempty"`
	ObservedAt  time.Time          `json:"observed_at"`
}

// Validate checks the event carries enough information to be applied
func (e *TxConfirmationEvent) Validate() error {
	if strings.TrimSpace(e.PurchaseID) == "" {
		return fmt.Errorf("%w: purchase_id is required", ErrInvalidInput)
	}
	if !e.Status.Valid() {
		return fmt.Errorf("%w: unknown confirmation status %q", ErrInvalidInput, e.Status)
	}
	if e.Status != ConfirmationStatusFailed && strings.TrimSpace(e.TxSignature) == "" {
		return fmt.Errorf("%w: tx_signature is required for status %s", ErrInvalidInput, e.Status)
	}
	return nil
}

// NormalizeAddress trims surrounding whitespace from a wallet address.
// Base58 wallet addresses are case sensitive, so the case is kept.
func NormalizeAddress(address string) string {
	return strings.TrimSpace(address)
}
