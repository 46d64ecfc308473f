package settings

import (
	"time"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
)

// SettingsDTO is the admin view of the settings row. Password hashes never
// leave the service; only whether each gate is configured.
type SettingsDTO struct {
	SiteTitle         string         `json:"site_title"`
	SiteDescription   *string        `json:"site_description,omitempty"`
	HeaderColor       string         `json:"header_color"`
	HeaderOpacity     int            `json:"header_opacity"`
	SiteColor         string         `json:"site_color"`
	SiteOpacity       int            `json:"site_opacity"`
	LogoURL           *string        `json:"logo_url,omitempty"`
	FaviconURL        *string        `json:"favicon_url,omitempty"`
	Welcome           *string        `json:"welcome_instructions,omitempty"`
	PWA               PWASettingsDTO `json:"pwa"`
	OpenGraph         OpenGraphDTO   `json:"open_graph"`
	StorefrontGateSet bool           `json:"storefront_password_set"`
	AdminGateSet      bool           `json:"admin_password_set"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// PWASettingsDTO groups the manifest fields.
type PWASettingsDTO struct {
	Name            string           `json:"name"`
	ShortName       string           `json:"short_name"`
	Description     *string          `json:"description,omitempty"`
	Display         string           `json:"display"`
	Orientation     string           `json:"orientation"`
	ThemeColor      string           `json:"theme_color"`
	BackgroundColor string           `json:"background_color"`
	StartURL        string           `json:"start_url"`
	Scope           string           `json:"scope"`
	Icons           []models.PWAIcon `json:"icons"`
}

// OpenGraphDTO groups the link preview fields.
type OpenGraphDTO struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	URL         *string `json:"url,omitempty"`
}

// PublicSiteDTO is the unauthenticated branding payload.
type PublicSiteDTO struct {
	SiteTitle       string       `json:"site_title"`
	SiteDescription *string      `json:"site_description,omitempty"`
	HeaderColor     string       `json:"header_color"`
	HeaderOpacity   int          `json:"header_opacity"`
	SiteColor       string       `json:"site_color"`
	SiteOpacity     int          `json:"site_opacity"`
	LogoURL         *string      `json:"logo_url,omitempty"`
	FaviconURL      *string      `json:"favicon_url,omitempty"`
	OpenGraph       OpenGraphDTO `json:"open_graph"`
}

// WelcomeDTO is shown after the storefront gate.
type WelcomeDTO struct {
	Instructions *string `json:"instructions"`
}

func newSettingsDTO(row *models.Settings) SettingsDTO {
	return SettingsDTO{
		SiteTitle:         row.SiteTitle,
		SiteDescription:   row.SiteDescription,
		HeaderColor:       row.HeaderColor,
		HeaderOpacity:     row.HeaderOpacity,
		SiteColor:         row.SiteColor,
		SiteOpacity:       row.SiteOpacity,
		LogoURL:           row.LogoURL,
		FaviconURL:        row.FaviconURL,
		Welcome:           row.WelcomeInstructions,
		PWA:               newPWASettingsDTO(row),
		OpenGraph:         newOpenGraphDTO(row),
		StorefrontGateSet: row.StorefrontPasswordHash != "",
		AdminGateSet:      row.AdminPasswordHash != "",
		UpdatedAt:         row.UpdatedAt,
	}
}

func newPWASettingsDTO(row *models.Settings) PWASettingsDTO {
	icons := []models.PWAIcon(row.PWAIcons)
	if icons == nil {
		icons = []models.PWAIcon{}
	}
	return PWASettingsDTO{
		Name:            row.PWAName,
		ShortName:       row.PWAShortName,
		Description:     row.PWADescription,
		Display:         string(row.PWADisplay),
		Orientation:     string(row.PWAOrientation),
		ThemeColor:      row.PWAThemeColor,
		BackgroundColor: row.PWABackgroundColor,
		StartURL:        row.PWAStartURL,
		Scope:           row.PWAScope,
		Icons:           icons,
	}
}

func newOpenGraphDTO(row *models.Settings) OpenGraphDTO {
	return OpenGraphDTO{
		Title:       row.OGTitle,
		Description: row.OGDescription,
		ImageURL:    row.OGImageURL,
		URL:         row.OGURL,
	}
}

func newPublicSiteDTO(row *models.Settings) PublicSiteDTO {
	return PublicSiteDTO{
		SiteTitle:       row.SiteTitle,
		SiteDescription: row.SiteDescription,
		HeaderColor:     row.HeaderColor,
		HeaderOpacity:   row.HeaderOpacity,
		SiteColor:       row.SiteColor,
		SiteOpacity:     row.SiteOpacity,
		LogoURL:         row.LogoURL,
		FaviconURL:      row.FaviconURL,
		OpenGraph:       newOpenGraphDTO(row),
	}
}
