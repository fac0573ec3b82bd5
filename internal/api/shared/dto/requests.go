package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/feral-file/trait-inventory/internal/api/shared/constants"
	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/store/schema"
)

// CreateReservationRequest represents the request body for reserving one or more traits
type CreateReservationRequest struct {
	TraitIDs      []string `json:"trait_ids"`
	WalletAddress string   `json:"wallet_address"`
	AssetID       string   `json:"asset_id"`
}

// Validate validates the request
func (r *CreateReservationRequest) Validate() error {
	if len(r.TraitIDs) == 0 {
		return fmt.Errorf("%w: trait_ids is required", domain.ErrInvalidInput)
	}
	for _, id := range r.TraitIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: trait_ids must not contain empty values", domain.ErrInvalidInput)
		}
	}
	if strings.TrimSpace(r.WalletAddress) == "" {
		return fmt.Errorf("%w: wallet_address is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(r.AssetID) == "" {
		return fmt.Errorf("%w: asset_id is required", domain.ErrInvalidInput)
	}
	return nil
}

// BulkCancelRequest represents the request body for cancelling many reservations
type BulkCancelRequest struct {
	ReservationIDs []string `json:"reservation_ids"`
}

// Validate validates the request
func (r *BulkCancelRequest) Validate() error {
	if len(r.ReservationIDs) > constants.MAX_BULK_CANCEL_IDS {
		return fmt.Errorf("%w: at most %d reservation_ids are allowed", domain.ErrInvalidInput, constants.MAX_BULK_CANCEL_IDS)
	}
	return nil
}

// ConsumeReservationRequest represents the optional purchase details supplied when consuming a reservation
type ConsumeReservationRequest struct {
	PriceAmount    *string         `json:"price_amount,omitempty"`
	TokenID        string          `json:"token_id,omitempty"`
	TreasuryWallet string          `json:"treasury_wallet,omitempty"`
	Status         string          `json:"status,omitempty"`
	TxSignature    *string         `json:"tx_signature,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

// ParsePriceAmount parses the optional price. A nil result means the trait price applies.
func (r *ConsumeReservationRequest) ParsePriceAmount() (*decimal.Decimal, error) {
	if r.PriceAmount == nil {
		return nil, nil
	}
	amount, err := decimal.NewFromString(*r.PriceAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: price_amount is not a decimal", domain.ErrInvalidInput)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: price_amount must not be negative", domain.ErrInvalidInput)
	}
	return &amount, nil
}

// Validate validates the request
func (r *ConsumeReservationRequest) Validate() error {
	if _, err := r.ParsePriceAmount(); err != nil {
		return err
	}
	if r.Status != "" && !schema.PurchaseStatus(r.Status).Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, r.Status)
	}
	if len(r.Metadata) > 0 && !json.Valid(r.Metadata) {
		return fmt.Errorf("%w: metadata must be valid JSON", domain.ErrInvalidInput)
	}
	return nil
}

// UpdatePurchaseStatusRequest represents the request body for a purchase status change
type UpdatePurchaseStatusRequest struct {
	Status      string  `json:"status"`
	TxSignature *string `json:"tx_signature,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// Validate validates the request
func (r *UpdatePurchaseStatusRequest) Validate() error {
	if !schema.PurchaseStatus(r.Status).Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, r.Status)
	}
	if r.TxSignature != nil && strings.TrimSpace(*r.TxSignature) == "" {
		return fmt.Errorf("%w: tx_signature must not be empty", domain.ErrInvalidInput)
	}
	return nil
}
