package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
)

// Repository wires together product and product-category persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns every product, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// FindByID loads the product without categories.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, row *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Save writes every column of an existing product.
func (r *Repository) Save(ctx context.Context, row *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a product and its category links.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", id).Delete(&models.ProductCategory{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type categoryLink struct {
	ProductID uuid.UUID
	Name      string
}

// CategoryNames resolves category labels for the given products. A nil
// id list loads links for every product.
func (r *Repository) CategoryNames(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	q := r.db.WithContext(ctx).
		Table("product_categories AS pc").
		Select("pc.product_id AS product_id, c.name AS name").
		Joins("JOIN categories c ON c.id = pc.category_id").
		Order("c.name ASC")
	if productIDs != nil {
		if len(productIDs) == 0 {
			return map[uuid.UUID][]string{}, nil
		}
		q = q.Where("pc.product_id IN ?", productIDs)
	}

	var links []categoryLink
	if err := q.Scan(&links).Error; err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID][]string, len(links))
	for _, link := range links {
		out[link.ProductID] = append(out[link.ProductID], link.Name)
	}
	return out, nil
}

// ReplaceCategories swaps the product's category links for the given set.
func (r *Repository) ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductCategory{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]models.ProductCategory, len(categoryIDs))
	for i, id := range categoryIDs {
		links[i] = models.ProductCategory{ProductID: productID, CategoryID: id}
	}
	return tx.Create(&links).Error
}

// FindCategoriesByNames returns the categories whose names are in the list.
func (r *Repository) FindCategoriesByNames(ctx context.Context, names []string) ([]models.Category, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var rows []models.Category
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&rows).Error
	return rows, err
}
