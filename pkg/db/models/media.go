package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
)

// Media records every object written to the bucket through the admin
// upload endpoints.
type Media struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Kind      enums.MediaKind `gorm:"column:kind;not null"`
	GCSKey    string          `gorm:"column:gcs_key;not null;uniqueIndex:media_gcs_key_key"`
	URL       string          `gorm:"column:url;not null"`
	FileName  string          `gorm:"column:file_name;not null"`
	MimeType  string          `gorm:"column:mime_type;not null"`
	SizeBytes int64           `gorm:"column:size_bytes;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Media) TableName() string { return "media" }

func (m *Media) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
