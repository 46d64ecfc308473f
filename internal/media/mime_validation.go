package media

import (
	"fmt"
	"mime"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
)

type mimeGroup string

const (
	mimeGroupImages mimeGroup = "images"
	mimeGroupVideos mimeGroup = "videos"
	mimeGroupIcons  mimeGroup = "icons"
)

var mimeGroupTypes = map[mimeGroup][]string{
	mimeGroupImages: {"image/png", "image/jpeg", "image/webp", "image/gif"},
	mimeGroupVideos: {"video/mp4", "video/webm", "video/quicktime"},
	mimeGroupIcons:  {"image/x-icon", "image/vnd.microsoft.icon", "image/svg+xml"},
}

var allowedMimeGroupsByKind = map[enums.MediaKind][]mimeGroup{
	enums.MediaKindProduct: {mimeGroupImages, mimeGroupVideos},
	enums.MediaKindLogo:    {mimeGroupImages, mimeGroupIcons},
	enums.MediaKindFavicon: {mimeGroupImages, mimeGroupIcons},
	enums.MediaKindOGImage: {mimeGroupImages},
}

// rasterTypes can be decoded and re-encoded as WebP.
var rasterTypes = []string{"image/png", "image/jpeg", "image/gif"}

// sniffMimeType detects the content type from the payload itself; the
// client-declared type is ignored.
func sniffMimeType(data []byte) (mediaType, extension string) {
	detected := mimetype.Detect(data)
	mediaType, _, err := mime.ParseMediaType(detected.String())
	if err != nil || mediaType == "" {
		mediaType = detected.String()
	}
	return strings.ToLower(mediaType), detected.Extension()
}

func isAllowedMime(kind enums.MediaKind, mediaType string) bool {
	for _, group := range allowedMimeGroupsByKind[kind] {
		if slices.Contains(mimeGroupTypes[group], mediaType) {
			return true
		}
	}
	return false
}

func allowedMimeDescription(kind enums.MediaKind) string {
	groups := allowedMimeGroupsByKind[kind]
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g)
	}
	switch len(names) {
	case 0:
		return "the approved mime types"
	case 1:
		return names[0]
	default:
		return fmt.Sprintf("%s or %s", strings.Join(names[:len(names)-1], ", "), names[len(names)-1])
	}
}

func isVideo(mediaType string) bool {
	return strings.HasPrefix(mediaType, "video/")
}

func isRaster(mediaType string) bool {
	return slices.Contains(rasterTypes, mediaType)
}
