package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/catalog"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/config"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/types"
)

// Service exposes catalog reads for the storefront and product management
// for the admin panel.
type Service interface {
	Catalog(ctx context.Context) ([]catalog.Product, error)
	ListStorefront(ctx context.Context, filter catalog.ViewFilter) ([]StorefrontProductDTO, error)
	GetStorefront(ctx context.Context, id uuid.UUID) (*StorefrontProductDTO, error)
	ListAdmin(ctx context.Context, filter catalog.ViewFilter) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetMedia(ctx context.Context, id uuid.UUID, input MediaUpdate) (*ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Description   *string
	Strain        *string
	THCPercent    *float64
	Categories    []string
	Stock         *int
	RegularPrice  decimal.NullDecimal
	ShippingPrice decimal.NullDecimal
	PrimaryMedia  enums.PrimaryMedia
}

// UpdateProductInput holds optional mutation values for a product. Empty
// strings clear optional text fields.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Strain        *string
	THCPercent    *float64
	ClearTHC      bool
	Categories    *[]string
	Stock         *int
	ClearStock    bool
	RegularPrice  types.NullableDecimal
	ShippingPrice types.NullableDecimal
	PrimaryMedia  *enums.PrimaryMedia
}

// MediaUpdate records uploaded asset URLs on a product. Nil fields are left
// unchanged.
type MediaUpdate struct {
	ImageURL     *string
	WebPURL      *string
	VideoURL     *string
	PrimaryMedia enums.PrimaryMedia
}

type service struct {
	repo        *Repository
	dbClient    *db.Client
	placeholder string
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, cfg config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:        repo,
		dbClient:    dbClient,
		placeholder: cfg.PlaceholderImageURL,
	}, nil
}

// Catalog loads every product with its category labels resolved.
func (s *service) Catalog(ctx context.Context) ([]catalog.Product, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	labels, err := s.repo.CategoryNames(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list product categories")
	}
	out := make([]catalog.Product, len(rows))
	for i, row := range rows {
		out[i] = toCatalogProduct(row, labels[row.ID])
	}
	return out, nil
}

func (s *service) ListStorefront(ctx context.Context, filter catalog.ViewFilter) ([]StorefrontProductDTO, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	view := catalog.DeriveView(all, filter)
	out := make([]StorefrontProductDTO, len(view))
	for i, p := range view {
		out[i] = NewStorefrontProductDTO(p, s.placeholder)
	}
	return out, nil
}

func (s *service) GetStorefront(ctx context.Context, id uuid.UUID) (*StorefrontProductDTO, error) {
	p, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := NewStorefrontProductDTO(*p, s.placeholder)
	return &dto, nil
}

func (s *service) ListAdmin(ctx context.Context, filter catalog.ViewFilter) ([]ProductDTO, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	view := catalog.DeriveView(all, filter)
	out := make([]ProductDTO, len(view))
	for i, p := range view {
		out[i] = NewProductDTO(p)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	p, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := NewProductDTO(*p)
	return &dto, nil
}

// Create inserts the product and its category links in one transaction.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	primary := input.PrimaryMedia
	if primary == "" {
		primary = enums.PrimaryMediaImage
	}
	row := &models.Product{
		Name:          name,
		Description:   trimOptional(input.Description),
		Strain:        trimOptional(input.Strain),
		THCPercent:    input.THCPercent,
		Stock:         input.Stock,
		RegularPrice:  input.RegularPrice,
		ShippingPrice: input.ShippingPrice,
		PrimaryMedia:  primary,
	}
	if err := validateProduct(row); err != nil {
		return nil, err
	}
	labels := normalizeCategories(input.Categories)

	var created *catalog.Product
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		categoryIDs, err := resolveCategories(ctx, txRepo, labels)
		if err != nil {
			return err
		}
		if _, err := txRepo.Create(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		if err := txRepo.ReplaceCategories(ctx, row.ID, categoryIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: link product categories")
		}
		created, err = s.load(ctx, txRepo, row.ID)
		return err
	}); err != nil {
		return nil, err
	}

	dto := NewProductDTO(*created)
	return &dto, nil
}

// Update applies the provided fields; the stored row is untouched when any
// write fails.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	var updated *catalog.Product
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		row, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err)
		}
		if err := applyUpdate(row, input); err != nil {
			return err
		}
		if err := validateProduct(row); err != nil {
			return err
		}
		if input.Categories != nil {
			categoryIDs, err := resolveCategories(ctx, txRepo, normalizeCategories(*input.Categories))
			if err != nil {
				return err
			}
			if err := txRepo.ReplaceCategories(ctx, id, categoryIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: link product categories")
			}
		}
		if _, err := txRepo.Save(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		updated, err = s.load(ctx, txRepo, id)
		return err
	}); err != nil {
		return nil, err
	}

	dto := NewProductDTO(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return mapReadError(err)
		}
		return nil
	})
}

// SetMedia stores uploaded media URLs.
func (s *service) SetMedia(ctx context.Context, id uuid.UUID, input MediaUpdate) (*ProductDTO, error) {
	var updated *catalog.Product
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		row, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return mapReadError(err)
		}
		if input.ImageURL != nil {
			row.ImageURL = input.ImageURL
		}
		if input.WebPURL != nil {
			row.WebPURL = input.WebPURL
		}
		if input.VideoURL != nil {
			row.VideoURL = input.VideoURL
		}
		if input.PrimaryMedia != "" {
			row.PrimaryMedia = input.PrimaryMedia
		}
		if _, err := txRepo.Save(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product media")
		}
		updated, err = s.load(ctx, txRepo, id)
		return err
	}); err != nil {
		return nil, err
	}
	dto := NewProductDTO(*updated)
	return &dto, nil
}

func (s *service) load(ctx context.Context, repo *Repository, id uuid.UUID) (*catalog.Product, error) {
	row, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err)
	}
	labels, err := repo.CategoryNames(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product categories")
	}
	p := toCatalogProduct(*row, labels[id])
	return &p, nil
}

func applyUpdate(row *models.Product, input UpdateProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		row.Name = name
	}
	if input.Description != nil {
		row.Description = trimOptional(input.Description)
	}
	if input.Strain != nil {
		row.Strain = trimOptional(input.Strain)
	}
	switch {
	case input.ClearTHC:
		row.THCPercent = nil
	case input.THCPercent != nil:
		row.THCPercent = input.THCPercent
	}
	switch {
	case input.ClearStock:
		row.Stock = nil
	case input.Stock != nil:
		row.Stock = input.Stock
	}
	if input.RegularPrice.Valid {
		row.RegularPrice = input.RegularPrice.NullDecimal()
	}
	if input.ShippingPrice.Valid {
		row.ShippingPrice = input.ShippingPrice.NullDecimal()
	}
	if input.PrimaryMedia != nil {
		row.PrimaryMedia = *input.PrimaryMedia
	}
	return nil
}

func validateProduct(row *models.Product) error {
	if row.Stock != nil && *row.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if row.THCPercent != nil && (*row.THCPercent < 0 || *row.THCPercent > 100) {
		return pkgerrors.New(pkgerrors.CodeValidation, "thc_percent must be between 0 and 100")
	}
	if row.RegularPrice.Valid && row.RegularPrice.Decimal.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "regular_price cannot be negative")
	}
	if row.ShippingPrice.Valid && row.ShippingPrice.Decimal.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping_price cannot be negative")
	}
	if !row.PrimaryMedia.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "media_type must be image or video")
	}
	return nil
}

// normalizeCategories trims labels and drops blanks and duplicates so a
// product always holds a set.
func normalizeCategories(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		clean := strings.TrimSpace(label)
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}

func resolveCategories(ctx context.Context, repo *Repository, labels []string) ([]uuid.UUID, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	rows, err := repo.FindCategoriesByNames(ctx, labels)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: resolve categories")
	}
	byName := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		byName[row.Name] = row.ID
	}

	ids := make([]uuid.UUID, 0, len(labels))
	var unknown []string
	for _, label := range labels {
		id, ok := byName[label]
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		ids = append(ids, id)
	}
	if len(unknown) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown categories").
			WithDetails(map[string]any{"categories": unknown})
	}
	return ids, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	clean := strings.TrimSpace(*value)
	if clean == "" {
		return nil
	}
	return &clean
}

func mapReadError(err error) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
}
