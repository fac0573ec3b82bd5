package dto

import (
	"time"

	"github.com/feral-file/trait-inventory/internal/store/schema"
)

// ReservationResponse represents a reservation
type ReservationResponse struct {
	ID            string    `json:"id"`
	TraitID       string    `json:"trait_id"`
	WalletAddress string    `json:"wallet_address"`
	AssetID       string    `json:"asset_id"`
	Status        string    `json:"status"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateReservationsResponse represents the reservations created by one request
type CreateReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// ReservationStatusResponse represents the lazily expired view of a reservation
type ReservationStatusResponse struct {
	Found       bool                 `json:"found"`
	IsExpired   bool                 `json:"is_expired"`
	Reservation *ReservationResponse `json:"reservation,omitempty"`
}

// ReservationListResponse represents the active reservations of a wallet
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// BulkCancelResponse represents the outcome of a bulk cancellation
type BulkCancelResponse struct {
	CancelledCount int `json:"cancelled_count"`
}

// CleanupResponse represents the outcome of a cleanup sweep
type CleanupResponse struct {
	CleanedCount int64 `json:"cleaned_count"`
}

// MapReservationToDTO maps a reservation row to its response
func MapReservationToDTO(r *schema.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}
	return &ReservationResponse{
		ID:            r.ID,
		TraitID:       r.TraitID,
		WalletAddress: r.WalletAddress,
		AssetID:       r.AssetID,
		Status:        string(r.Status),
		ExpiresAt:     r.ExpiresAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
