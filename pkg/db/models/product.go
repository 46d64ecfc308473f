package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
)

// Product is the single-vendor catalog listing. Category labels live in the
// product_categories join table.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Description   *string             `gorm:"column:description"`
	Strain        *string             `gorm:"column:strain"`
	THCPercent    *float64            `gorm:"column:thc_percent;type:numeric(5,2)"`
	Stock         *int                `gorm:"column:stock"`
	RegularPrice  decimal.NullDecimal `gorm:"column:regular_price;type:numeric(10,2)"`
	ShippingPrice decimal.NullDecimal `gorm:"column:shipping_price;type:numeric(10,2)"`
	ImageURL      *string             `gorm:"column:image_url"`
	WebPURL       *string             `gorm:"column:image_webp_url"`
	VideoURL      *string             `gorm:"column:video_url"`
	PrimaryMedia  enums.PrimaryMedia  `gorm:"column:primary_media;not null;default:'image'"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PrimaryMedia == "" {
		p.PrimaryMedia = enums.PrimaryMediaImage
	}
	return nil
}
