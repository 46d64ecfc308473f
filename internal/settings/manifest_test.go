package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
)

func TestBuildManifestFallbacks(t *testing.T) {
	desc := "Premium goods"
	row := Defaults()
	row.SiteTitle = "Red Carpet"
	row.SiteDescription = &desc

	m := BuildManifest(row)
	assert.Equal(t, "Red Carpet", m.Name)
	assert.Equal(t, "Red Carpet", m.ShortName)
	assert.Equal(t, "Premium goods", m.Description)
	assert.Equal(t, "standalone", m.Display)
	assert.Equal(t, "/", m.StartURL)
	assert.NotNil(t, m.Icons)
	assert.Empty(t, m.Icons)
}

func TestBuildManifestUsesPWAFields(t *testing.T) {
	row := Defaults()
	row.SiteTitle = "Site"
	row.PWAName = "Red Carpet Distro"
	row.PWAShortName = "RCD"
	row.PWAIcons = append(row.PWAIcons, models.PWAIcon{Src: "/icon-72.png", Sizes: "72x72", Type: "image/png", Purpose: "any"})

	m := BuildManifest(row)
	assert.Equal(t, "Red Carpet Distro", m.Name)
	assert.Equal(t, "RCD", m.ShortName)
	assert.Len(t, m.Icons, 1)
	assert.Equal(t, "72x72", m.Icons[0].Sizes)
}

func TestBuildManifestEmptySettings(t *testing.T) {
	m := BuildManifest(models.Settings{})
	assert.Equal(t, defaultAppName, m.Name)
	assert.Equal(t, "any", m.Orientation)
}
