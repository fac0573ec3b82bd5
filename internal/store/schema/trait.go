package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trait represents the traits table - the catalog of purchasable layers.
// The inventory service only reads it, except for the supply decrement applied
// when a purchase is fulfilled.
type Trait struct {
	// ID is the trait identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// Name is the display name of the trait
	Name string `gorm:"column:name;not null;type:text"`
	// TotalSupply is the number of units ever sellable; nil means unlimited
	TotalSupply *int `gorm:"column:total_supply"`
	// RemainingSupply is the number of units not yet fulfilled (meaningful only when TotalSupply is set)
	RemainingSupply int `gorm:"column:remaining_supply;not null;default:0"`
	// Active tells whether the trait is currently for sale
	Active bool `gorm:"column:active;not null;default:true"`
	// PriceAmount is the price per unit in the payment token
	PriceAmount decimal.Decimal `gorm:"column:price_amount;not null;type:numeric(38,18)"`
	// TokenID references the payment token (e.g. SPL mint address)
	TokenID   string    `gorm:"column:token_id;not null;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Trait model
func (Trait) TableName() string {
	return "traits"
}

// Unlimited reports whether the trait has no supply cap
func (t *Trait) Unlimited() bool {
	return t.TotalSupply == nil
}
