package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/feral-file/trait-inventory/internal/store/schema"
)

// CreateReservationInput represents the data needed to insert a reservation
type CreateReservationInput struct {
	ID            string
	TraitID       string
	WalletAddress string
	AssetID       string
	ExpiresAt     time.Time
	CreatedAt     time.Time
}

// CreatePurchaseInput represents the data needed to insert a purchase
type CreatePurchaseInput struct {
	ID             string
	ReservationID  string
	WalletAddress  string
	AssetID        string
	TraitID        string
	PriceAmount    decimal.Decimal
	TokenID        string
	TreasuryWallet string
	Status         schema.PurchaseStatus
	TxSignature    *string
	Metadata       datatypes.JSON
	CreatedAt      time.Time
}

// UpdatePurchaseStatusInput represents a purchase status change
type UpdatePurchaseStatusInput struct {
	ID            string
	Status        schema.PurchaseStatus
	TxSignature   *string
	FailureReason *string
	UpdatedAt     time.Time
}

// HeldUnits is the number of units of a trait held but not yet fulfilled
type HeldUnits struct {
	ActiveReservations int64
	PendingPurchases   int64
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// WithTx runs fn inside a single database transaction. The Store passed to fn
	// is bound to the transaction; returning an error rolls everything back.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// =============================================================================
	// Trait catalog
	// =============================================================================

	// GetTrait retrieves a trait by ID, nil if not found
	GetTrait(ctx context.Context, traitID string) (*schema.Trait, error)
	// GetTraitForUpdate retrieves a trait by ID and locks its row until the transaction ends, nil if not found
	GetTraitForUpdate(ctx context.Context, traitID string) (*schema.Trait, error)
	// DecrementTraitSupply decrements remaining supply of a limited trait by one
	DecrementTraitSupply(ctx context.Context, traitID string, now time.Time) error

	// =============================================================================
	// Reservations
	// =============================================================================

	// CreateReservation inserts a reservation in reserved status
	CreateReservation(ctx context.Context, input CreateReservationInput) (*schema.Reservation, error)
	// GetReservationByID retrieves a reservation regardless of status, nil if not found
	GetReservationByID(ctx context.Context, id string) (*schema.Reservation, error)
	// GetReservationForUpdate retrieves a reservation and locks its row, nil if not found
	GetReservationForUpdate(ctx context.Context, id string) (*schema.Reservation, error)
	// FindActiveReservation returns the reservation for the tuple only if it is reserved and unexpired at now
	FindActiveReservation(ctx context.Context, traitID, walletAddress, assetID string, now time.Time) (*schema.Reservation, error)
	// GetActiveReservationCount counts reserved, unexpired reservations of a trait
	GetActiveReservationCount(ctx context.Context, traitID string, now time.Time) (int64, error)
	// GetActiveReservationCountByWallet counts reserved, unexpired reservations held by a wallet
	GetActiveReservationCountByWallet(ctx context.Context, walletAddress string, now time.Time) (int64, error)
	// GetActiveReservationsByWallet lists reserved, unexpired reservations held by a wallet
	GetActiveReservationsByWallet(ctx context.Context, walletAddress string, now time.Time) ([]schema.Reservation, error)
	// GetHeldUnits counts active reservations and pending purchases of a trait in one snapshot
	GetHeldUnits(ctx context.Context, traitID string, now time.Time) (HeldUnits, error)
	// CancelReservation flips a reserved reservation to cancelled; nil when it was not reserved
	CancelReservation(ctx context.Context, id string, now time.Time) (*schema.Reservation, error)
	// ConsumeReservation flips a reserved, unexpired reservation to consumed; nil when it did not qualify
	ConsumeReservation(ctx context.Context, id string, now time.Time) (*schema.Reservation, error)
	// ExpireReservationsForTuple expires stale reserved rows of one trait/wallet/asset tuple
	ExpireReservationsForTuple(ctx context.Context, traitID, walletAddress, assetID string, now time.Time) (int64, error)
	// ExpireStaleReservations expires every reserved row whose expiry is at or before now
	ExpireStaleReservations(ctx context.Context, now time.Time) (int64, error)

	// =============================================================================
	// Purchases
	// =============================================================================

	// CreatePurchase inserts a purchase
	CreatePurchase(ctx context.Context, input CreatePurchaseInput) (*schema.Purchase, error)
	// GetPurchaseByID retrieves a purchase, nil if not found
	GetPurchaseByID(ctx context.Context, id string) (*schema.Purchase, error)
	// GetPurchaseForUpdate retrieves a purchase and locks its row, nil if not found
	GetPurchaseForUpdate(ctx context.Context, id string) (*schema.Purchase, error)
	// GetPurchaseByTxSignature retrieves the purchase owning a signature, nil if none
	GetPurchaseByTxSignature(ctx context.Context, txSignature string) (*schema.Purchase, error)
	// UpdatePurchaseStatus writes a new status (and optionally signature / failure reason)
	UpdatePurchaseStatus(ctx context.Context, input UpdatePurchaseStatusInput) (*schema.Purchase, error)
}
