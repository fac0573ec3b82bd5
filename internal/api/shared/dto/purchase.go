package dto

import (
	"encoding/json"
	"time"

	"github.com/feral-file/trait-inventory/internal/store/schema"
)

// PurchaseResponse represents a purchase
type PurchaseResponse struct {
	ID             string          `json:"id"`
	ReservationID  string          `json:"reservation_id"`
	WalletAddress  string          `json:"wallet_address"`
	AssetID        string          `json:"asset_id"`
	TraitID        string          `json:"trait_id"`
	PriceAmount    string          `json:"price_amount"`
	TokenID        string          `json:"token_id"`
	TreasuryWallet string          `json:"treasury_wallet"`
	Status         string          `json:"status"`
	TxSignature    *string         `json:"tx_signature,omitempty"`
	FailureReason  *string         `json:"failure_reason,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// MapPurchaseToDTO maps a purchase row to its response
func MapPurchaseToDTO(p *schema.Purchase) *PurchaseResponse {
	if p == nil {
		return nil
	}

	resp := &PurchaseResponse{
		ID:             p.ID,
		ReservationID:  p.ReservationID,
		WalletAddress:  p.WalletAddress,
		AssetID:        p.AssetID,
		TraitID:        p.TraitID,
		PriceAmount:    p.PriceAmount.String(),
		TokenID:        p.TokenID,
		TreasuryWallet: p.TreasuryWallet,
		Status:         string(p.Status),
		TxSignature:    p.TxSignature,
		FailureReason:  p.FailureReason,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if len(p.Metadata) > 0 {
		resp.Metadata = json.RawMessage(p.Metadata)
	}
	return resp
}
