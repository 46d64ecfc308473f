package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/icons"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/config"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/pagination"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/storage"
)

// Service uploads admin media to the object store and records it.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UploadInput is one file received from the admin panel.
type UploadInput struct {
	Kind     enums.MediaKind
	FileName string
	Body     io.Reader
}

// UploadResult describes the stored object and its optional WebP variant.
type UploadResult struct {
	MediaID   uuid.UUID `json:"media_id"`
	Kind      string    `json:"kind"`
	URL       string    `json:"url"`
	WebPURL   *string   `json:"webp_url,omitempty"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	IsVideo   bool      `json:"is_video"`
}

// ListParams configures media listing filters/pagination.
type ListParams struct {
	Kind   *enums.MediaKind
	Limit  int
	Cursor string
}

// ListResult returns paginated media metadata.
type ListResult struct {
	Items  []ListItem `json:"items"`
	Cursor string     `json:"cursor"`
}

// ListItem represents returned media metadata.
type ListItem struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

type service struct {
	repo     *Repository
	store    storage.ObjectStore
	maxBytes int64
	prefix   string
	logg     *logger.Logger
}

// NewService constructs a media service backed by the repository and object store.
func NewService(repo *Repository, store storage.ObjectStore, cfg config.MediaConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if cfg.MaxUploadBytes() <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:     repo,
		store:    store,
		maxBytes: cfg.MaxUploadBytes(),
		prefix:   cfg.ObjectPrefix,
		logg:     logg,
	}, nil
}

// Upload stores the original under a fresh key. Raster images also get a
// WebP variant; a failed variant is logged and the original kept.
func (s *service) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodePayloadTooLarge, fmt.Sprintf("file must be at most %d bytes", s.maxBytes))
	}

	mediaType, ext := sniffMimeType(data)
	if !isAllowedMime(input.Kind, mediaType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s uploads must be %s", input.Kind, allowedMimeDescription(input.Kind)))
	}

	id := uuid.New()
	objectName := objectFileName(input.FileName, ext, id)
	fileName := sanitizeFileName(input.FileName)
	if fileName == "" {
		fileName = objectName
	}
	key := buildKey(s.prefix, input.Kind, id, objectName)

	ctx = s.logg.WithFields(ctx, map[string]any{
		"media_kind": input.Kind.String(),
		"mime_type":  mediaType,
		"gcs_key":    key,
	})

	url, err := s.store.Upload(ctx, key, mediaType, bytes.NewReader(data))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload media")
	}

	row, err := s.repo.Upsert(ctx, &models.Media{
		ID:        id,
		Kind:      input.Kind,
		GCSKey:    key,
		URL:       url,
		FileName:  fileName,
		MimeType:  mediaType,
		SizeBytes: int64(len(data)),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media row")
	}

	result := &UploadResult{
		MediaID:   row.ID,
		Kind:      input.Kind.String(),
		URL:       url,
		MimeType:  mediaType,
		SizeBytes: row.SizeBytes,
		IsVideo:   isVideo(mediaType),
	}

	switch {
	case mediaType == icons.FormatWebP.ContentType():
		result.WebPURL = &url
	case isRaster(mediaType):
		if webpURL, err := s.uploadWebPVariant(ctx, key, data); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "media.webp_variant_failed")
		} else {
			result.WebPURL = &webpURL
		}
	}

	s.logg.Info(ctx, "media uploaded")
	return result, nil
}

func (s *service) uploadWebPVariant(ctx context.Context, key string, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := icons.WebPEncoder.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}
	return s.store.Upload(ctx, webpVariantKey(key), icons.FormatWebP.ContentType(), &buf)
}

// webpVariantKey names the WebP copy of a raster original. The ".variant"
// infix keeps it distinct from the original key whatever the extension.
func webpVariantKey(key string) string {
	return strings.TrimSuffix(key, path.Ext(key)) + ".variant." + string(icons.FormatWebP)
}

// objectFileName keeps the client's base name but takes the extension from
// the sniffed content, so a PNG named photo.webp is stored as photo.png.
func objectFileName(clientName, sniffedExt string, id uuid.UUID) string {
	base := sanitizeFileName(clientName)
	base = strings.TrimRight(strings.TrimSuffix(base, path.Ext(base)), ".")
	if base == "" {
		base = id.String()
	}
	return base + sniffedExt
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := listQuery{kind: params.Kind, limit: pagination.LimitWithBuffer(limit)}
	if params.Kind != nil && !params.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	query.cursor = cursor

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media")
	}

	rows, next := pagination.Trim(rows, limit, func(m models.Media) pagination.Cursor {
		return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
	})

	items := make([]ListItem, len(rows))
	for i, m := range rows {
		items[i] = ListItem{
			ID:        m.ID,
			Kind:      m.Kind.String(),
			URL:       m.URL,
			FileName:  m.FileName,
			MimeType:  m.MimeType,
			SizeBytes: m.SizeBytes,
			CreatedAt: m.CreatedAt,
		}
	}
	return &ListResult{Items: items, Cursor: next}, nil
}

// Delete removes the object and its record. A missing object is not an
// error so half-deleted media can be cleaned up.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media")
	}
	if err := s.store.Delete(ctx, row.GCSKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media object")
	}
	if isRaster(row.MimeType) {
		if err := s.store.Delete(ctx, webpVariantKey(row.GCSKey)); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media webp variant")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media row")
	}
	return nil
}

func buildKey(prefix string, kind enums.MediaKind, id uuid.UUID, fileName string) string {
	return storage.JoinKey(prefix, kind.String(), id.String(), fileName)
}

func sanitizeFileName(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	clean := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
