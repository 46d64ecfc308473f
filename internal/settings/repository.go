package settings

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
)

// Repository persists the singleton settings row.
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

// Get loads the settings row, creating it with defaults on first use.
func (r *Repository) Get(ctx context.Context) (*models.Settings, error) {
	var row models.Settings
	err := r.db.WithContext(ctx).
		Where("id = ?", models.SettingsID).
		Attrs(Defaults()).
		FirstOrCreate(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Save writes every column of the settings row.
func (r *Repository) Save(ctx context.Context, row *models.Settings) (*models.Settings, error) {
	row.ID = models.SettingsID
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Defaults is the settings row written on first boot.
func Defaults() models.Settings {
	return models.Settings{
		ID:                 models.SettingsID,
		HeaderColor:        "#FFFFFF",
		HeaderOpacity:      100,
		SiteColor:          "#FFFFFF",
		SiteOpacity:        100,
		PWADisplay:         enums.PWADisplayStandalone,
		PWAOrientation:     enums.PWAOrientationAny,
		PWAThemeColor:      "#000000",
		PWABackgroundColor: "#FFFFFF",
		PWAStartURL:        "/",
		PWAScope:           "/",
		PWAIcons:           datatypes.JSONSlice[models.PWAIcon]{},
	}
}
