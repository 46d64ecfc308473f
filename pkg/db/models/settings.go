package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
)

// SettingsID is the primary key of the singleton settings row.
const SettingsID = 1

// PWAIcon is one manifest icon entry.
type PWAIcon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose"`
}

// Settings is the site-wide configuration row.
type Settings struct {
	ID int `gorm:"column:id;primaryKey;autoIncrement:false"`

	StorefrontPasswordHash string `gorm:"column:storefront_password_hash;not null;default:''"`
	AdminPasswordHash      string `gorm:"column:admin_password_hash;not null;default:''"`

	SiteTitle       string  `gorm:"column:site_title;not null;default:''"`
	SiteDescription *string `gorm:"column:site_description"`
	HeaderColor     string  `gorm:"column:header_color;not null;default:'#FFFFFF'"`
	HeaderOpacity   int     `gorm:"column:header_opacity;not null;default:100"`
	SiteColor       string  `gorm:"column:site_color;not null;default:'#FFFFFF'"`
	SiteOpacity     int     `gorm:"column:site_opacity;not null;default:100"`
	LogoURL         *string `gorm:"column:logo_url"`
	FaviconURL      *string `gorm:"column:favicon_url"`

	WelcomeInstructions *string `gorm:"column:welcome_instructions"`

	PWAName            string               `gorm:"column:pwa_name;not null;default:''"`
	PWAShortName       string               `gorm:"column:pwa_short_name;not null;default:''"`
	PWADescription     *string              `gorm:"column:pwa_description"`
	PWADisplay         enums.PWADisplayMode `gorm:"column:pwa_display;not null;default:'standalone'"`
	PWAOrientation     enums.PWAOrientation `gorm:"column:pwa_orientation;not null;default:'any'"`
	PWAThemeColor      string               `gorm:"column:pwa_theme_color;not null;default:'#000000'"`
	PWABackgroundColor string               `gorm:"column:pwa_background_color;not null;default:'#FFFFFF'"`
	PWAStartURL        string               `gorm:"column:pwa_start_url;not null;default:'/'"`
	PWAScope           string               `gorm:"column:pwa_scope;not null;default:'/'"`

	PWAIcons datatypes.JSONSlice[PWAIcon] `gorm:"column:pwa_icons"`

	OGTitle       *string `gorm:"column:og_title"`
	OGDescription *string `gorm:"column:og_description"`
	OGImageURL    *string `gorm:"column:og_image_url"`
	OGURL         *string `gorm:"column:og_url"`

	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Settings) TableName() string { return "settings" }
