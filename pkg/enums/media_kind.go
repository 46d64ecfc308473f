package enums

import (
	"fmt"
	"slices"
)

// MediaKind says what an uploaded object is for. It doubles as the object
// key folder in the bucket.
type MediaKind string

const (
	MediaKindProduct MediaKind = "product"
	MediaKindLogo    MediaKind = "logo"
	MediaKindFavicon MediaKind = "favicon"
	MediaKindOGImage MediaKind = "og_image"
)

var mediaKinds = []MediaKind{MediaKindProduct, MediaKindLogo, MediaKindFavicon, MediaKindOGImage}

func (m MediaKind) String() string { return string(m) }

func (m MediaKind) IsValid() bool {
	return slices.Contains(mediaKinds, m)
}

// IsSiteAsset reports whether the kind is one of the branding slots stored
// on the site settings row.
func (m MediaKind) IsSiteAsset() bool {
	return m.IsValid() && m != MediaKindProduct
}

func ParseMediaKind(value string) (MediaKind, error) {
	if kind := MediaKind(value); kind.IsValid() {
		return kind, nil
	}
	return "", fmt.Errorf("invalid media kind %q", value)
}
