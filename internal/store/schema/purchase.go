package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PurchaseStatus is the settlement state of a purchase
type PurchaseStatus string

const (
	PurchaseStatusCreated   PurchaseStatus = "created"
	PurchaseStatusTxBuilt   PurchaseStatus = "tx_built"
	PurchaseStatusConfirmed PurchaseStatus = "confirmed"
	PurchaseStatusFailed    PurchaseStatus = "failed"
	PurchaseStatusFulfilled PurchaseStatus = "fulfilled"
)

// PendingPurchaseStatuses are the statuses of purchases that still hold a unit of supply
var PendingPurchaseStatuses = []PurchaseStatus{
	PurchaseStatusCreated,
	PurchaseStatusTxBuilt,
	PurchaseStatusConfirmed,
}

// Valid reports whether s is a known purchase status
func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchaseStatusCreated,
		PurchaseStatusTxBuilt,
		PurchaseStatusConfirmed,
		PurchaseStatusFailed,
		PurchaseStatusFulfilled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from the status
func (s PurchaseStatus) Terminal() bool {
	return s == PurchaseStatusFailed || s == PurchaseStatusFulfilled
}

// Purchase represents the purchases table - a committed buy created when a reservation is consumed
type Purchase struct {
	// ID is the purchase identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// ReservationID is the consumed reservation (unique)
	ReservationID string `gorm:"column:reservation_id;not null;type:uuid"`
	WalletAddress string `gorm:"column:wallet_address;not null;type:text"`
	AssetID       string `gorm:"column:asset_id;not null;type:text"`
	TraitID       string `gorm:"column:trait_id;not null;type:uuid"`
	// PriceAmount is the amount charged in the payment token
	PriceAmount decimal.Decimal `gorm:"column:price_amount;not null;type:numeric(38,18)"`
	// TokenID references the payment token
	TokenID string `gorm:"column:token_id;not null;type:text"`
	// TreasuryWallet receives the payment
	TreasuryWallet string `gorm:"column:treasury_wallet;not null;type:text"`
	// Status is one of created, tx_built, confirmed, failed, fulfilled
	Status PurchaseStatus `gorm:"column:status;not null;type:varchar(16);default:created"`
	// TxSignature is the on-chain transaction signature; set at most once and globally unique
	TxSignature *string `gorm:"column:tx_signature;type:text"`
	// FailureReason explains a failed settlement
	FailureReason *string `gorm:"column:failure_reason;type:text"`
	// Metadata carries caller supplied context (e.g. layer composition inputs)
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}
