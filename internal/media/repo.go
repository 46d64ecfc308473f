package media

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/pagination"
)

// Repository exposes media metadata persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a media repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert persists a media record, replacing the row that already owns the
// same object key.
func (r *Repository) Upsert(ctx context.Context, media *models.Media) (*models.Media, error) {
	var existing models.Media
	err := r.db.WithContext(ctx).First(&existing, "gcs_key = ?", media.GCSKey).Error
	switch {
	case err == nil:
		media.ID = existing.ID
		media.CreatedAt = existing.CreatedAt
		if err := r.db.WithContext(ctx).Save(media).Error; err != nil {
			return nil, err
		}
		return media, nil
	case db.IsNotFound(err):
		if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
			return nil, err
		}
		return media, nil
	default:
		return nil, err
	}
}

// FindByID retrieves a media record by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var m models.Media
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a media record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Media{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type listQuery struct {
	kind   *enums.MediaKind
	limit  int
	cursor *pagination.Cursor
}

// List returns media newest first, keyset paginated on (created_at, id).
func (r *Repository) List(ctx context.Context, q listQuery) ([]models.Media, error) {
	tx := r.db.WithContext(ctx).Model(&models.Media{})
	if q.kind != nil {
		tx = tx.Where("kind = ?", *q.kind)
	}
	if q.cursor != nil {
		tx = tx.Where("(created_at < ?) OR (created_at = ? AND id < ?)", q.cursor.CreatedAt, q.cursor.CreatedAt, q.cursor.ID)
	}
	var rows []models.Media
	err := tx.Order("created_at DESC").Order("id DESC").Limit(q.limit).Find(&rows).Error
	return rows, err
}
