package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/catalog"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
)

// ProductDTO is the admin view of a product: every stored value as is.
type ProductDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   *string          `json:"description,omitempty"`
	Strain        *string          `json:"strain,omitempty"`
	THCPercent    *float64         `json:"thc_percent,omitempty"`
	Categories    []string         `json:"categories"`
	Stock         *int             `json:"stock,omitempty"`
	RegularPrice  *decimal.Decimal `json:"regular_price,omitempty"`
	ShippingPrice *decimal.Decimal `json:"shipping_price,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	WebPURL       *string          `json:"image_webp_url,omitempty"`
	VideoURL      *string          `json:"video_url,omitempty"`
	PrimaryMedia  string           `json:"media_type"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// StorefrontProductDTO is what visitors see. Prices that are absent or not
// positive are omitted and a missing image falls back to the placeholder.
type StorefrontProductDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   *string          `json:"description,omitempty"`
	Strain        *string          `json:"strain,omitempty"`
	THCPercent    *float64         `json:"thc_percent,omitempty"`
	Categories    []string         `json:"categories"`
	Stock         *int             `json:"stock,omitempty"`
	RegularPrice  *decimal.Decimal `json:"regular_price,omitempty"`
	ShippingPrice *decimal.Decimal `json:"shipping_price,omitempty"`
	ImageURL      string           `json:"image_url"`
	WebPURL       *string          `json:"image_webp_url,omitempty"`
	VideoURL      *string          `json:"video_url,omitempty"`
	PrimaryMedia  string           `json:"media_type"`
	Placeholder   bool             `json:"placeholder"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewProductDTO builds the admin payload.
func NewProductDTO(p catalog.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Strain:        p.Strain,
		THCPercent:    p.THCPercent,
		Categories:    nonNil(p.Categories),
		Stock:         p.Stock,
		RegularPrice:  nullablePtr(p.RegularPrice),
		ShippingPrice: nullablePtr(p.ShippingPrice),
		ImageURL:      p.ImageURL,
		WebPURL:       p.WebPURL,
		VideoURL:      p.VideoURL,
		PrimaryMedia:  p.PrimaryMedia.String(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// NewStorefrontProductDTO applies the display rules for visitors.
func NewStorefrontProductDTO(p catalog.Product, placeholderURL string) StorefrontProductDTO {
	dto := StorefrontProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Strain:        p.Strain,
		THCPercent:    p.THCPercent,
		Categories:    nonNil(p.Categories),
		Stock:         p.Stock,
		RegularPrice:  displayPrice(p.RegularPrice),
		ShippingPrice: displayPrice(p.ShippingPrice),
		WebPURL:       nonEmpty(p.WebPURL),
		VideoURL:      nonEmpty(p.VideoURL),
		PrimaryMedia:  p.PrimaryMedia.String(),
		CreatedAt:     p.CreatedAt,
	}

	switch {
	case nonEmpty(p.ImageURL) != nil:
		dto.ImageURL = *p.ImageURL
	case dto.WebPURL != nil:
		dto.ImageURL = *dto.WebPURL
	default:
		dto.ImageURL = placeholderURL
		dto.Placeholder = true
	}
	return dto
}

// toCatalogProduct attaches category labels to a stored row.
func toCatalogProduct(row models.Product, categories []string) catalog.Product {
	return catalog.Product{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		Strain:        row.Strain,
		THCPercent:    row.THCPercent,
		Categories:    categories,
		Stock:         row.Stock,
		RegularPrice:  row.RegularPrice,
		ShippingPrice: row.ShippingPrice,
		ImageURL:      row.ImageURL,
		WebPURL:       row.WebPURL,
		VideoURL:      row.VideoURL,
		PrimaryMedia:  row.PrimaryMedia,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func displayPrice(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid || !v.Decimal.IsPositive() {
		return nil
	}
	d := v.Decimal
	return &d
}

func nullablePtr(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func nonNil(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}
