package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
)

// Product is the read model the view engine works on: a product row with
// its category labels resolved.
type Product struct {
	ID            uuid.UUID
	Name          string
	Description   *string
	Strain        *string
	THCPercent    *float64
	Categories    []string
	Stock         *int
	RegularPrice  decimal.NullDecimal
	ShippingPrice decimal.NullDecimal
	ImageURL      *string
	WebPURL       *string
	VideoURL      *string
	PrimaryMedia  enums.PrimaryMedia
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PriceOrZero returns the regular price with a missing value coerced to 0.
func (p Product) PriceOrZero() decimal.Decimal {
	if !p.RegularPrice.Valid {
		return decimal.Zero
	}
	return p.RegularPrice.Decimal
}

// PotencyOrZero returns the THC percentage with a missing value coerced to 0.
func (p Product) PotencyOrZero() float64 {
	if p.THCPercent == nil {
		return 0
	}
	return *p.THCPercent
}

// StrainOrEmpty returns the strain label or "".
func (p Product) StrainOrEmpty() string {
	if p.Strain == nil {
		return ""
	}
	return *p.Strain
}
