package schema

import "time"

// ReservationStatus is the lifecycle state of a reservation
type ReservationStatus string

const (
	// ReservationStatusReserved holds one unit until ExpiresAt
	ReservationStatusReserved ReservationStatus = "reserved"
	// ReservationStatusConsumed was exchanged for a purchase
	ReservationStatusConsumed ReservationStatus = "consumed"
	// ReservationStatusExpired timed out before being consumed
	ReservationStatusExpired ReservationStatus = "expired"
	// ReservationStatusCancelled was released by the client
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Terminal reports whether no further transition is possible from the status
func (s ReservationStatus) Terminal() bool {
	return s == ReservationStatusConsumed ||
		s == ReservationStatusExpired ||
		s == ReservationStatusCancelled
}

// Reservation represents the reservations table - a time-boxed hold on one unit
// of a trait for a wallet/asset pair
type Reservation struct {
	// ID is the reservation identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// TraitID is the reserved trait
	TraitID string `gorm:"column:trait_id;not null;type:uuid"`
	// WalletAddress is the buyer's wallet
	WalletAddress string `gorm:"column:wallet_address;not null;type:text"`
	// AssetID is the NFT the trait will be applied to
	AssetID string `gorm:"column:asset_id;not null;type:text"`
	// Status is one of reserved, consumed, expired, cancelled
	Status ReservationStatus `gorm:"column:status;not null;type:varchar(16);default:reserved"`
	// ExpiresAt is the absolute expiry instant
	ExpiresAt time.Time `gorm:"column:expires_at;not null;type:timestamptz"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// IsActive reports whether the reservation still holds its unit at now.
// A reserved row past its expiry is treated as expired even before the sweeper updates it.
func (r *Reservation) IsActive(now time.Time) bool {
	return r.Status == ReservationStatusReserved && r.ExpiresAt.After(now)
}
