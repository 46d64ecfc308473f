package settings

import (
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
)

const defaultAppName = "Storefront"

// Manifest is the web app manifest served at /manifest.json.
type Manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description,omitempty"`
	StartURL        string         `json:"start_url"`
	Scope           string         `json:"scope"`
	Display         string         `json:"display"`
	Orientation     string         `json:"orientation"`
	ThemeColor      string         `json:"theme_color"`
	BackgroundColor string         `json:"background_color"`
	Icons           []ManifestIcon `json:"icons"`
}

// ManifestIcon is one entry of the manifest icons list.
type ManifestIcon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose,omitempty"`
}

// BuildManifest renders the manifest from a settings snapshot. Empty names
// fall back to the site title.
func BuildManifest(row models.Settings) Manifest {
	name := firstNonEmpty(row.PWAName, row.SiteTitle, defaultAppName)
	m := Manifest{
		Name:            name,
		ShortName:       firstNonEmpty(row.PWAShortName, name),
		StartURL:        firstNonEmpty(row.PWAStartURL, "/"),
		Scope:           firstNonEmpty(row.PWAScope, "/"),
		Display:         firstNonEmpty(string(row.PWADisplay), "standalone"),
		Orientation:     firstNonEmpty(string(row.PWAOrientation), "any"),
		ThemeColor:      row.PWAThemeColor,
		BackgroundColor: row.PWABackgroundColor,
		Icons:           make([]ManifestIcon, 0, len(row.PWAIcons)),
	}
	switch {
	case row.PWADescription != nil:
		m.Description = *row.PWADescription
	case row.SiteDescription != nil:
		m.Description = *row.SiteDescription
	}
	for _, icon := range row.PWAIcons {
		m.Icons = append(m.Icons, ManifestIcon{
			Src:     icon.Src,
			Sizes:   icon.Sizes,
			Type:    icon.Type,
			Purpose: icon.Purpose,
		})
	}
	return m
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
