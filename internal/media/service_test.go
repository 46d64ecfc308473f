package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/config"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/dbtest"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/storage/storagetest"
)

func newTestService(t *testing.T) (Service, *Repository, *storagetest.Memory) {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	store := storagetest.NewMemory()
	svc, err := NewService(repo, store, config.MediaConfig{MaxUploadMB: 1, ObjectPrefix: "media"}, nil)
	require.NoError(t, err)
	return svc, repo, store
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 20, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadStoresOriginalAndWebPVariant(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, UploadInput{
		Kind:     enums.MediaKindProduct,
		FileName: "Blue Dream.png",
		Body:     bytes.NewReader(pngBytes(t, 16, 16)),
	})
	require.NoError(t, err)

	assert.Equal(t, "image/png", res.MimeType)
	assert.False(t, res.IsVideo)
	assert.True(t, strings.HasSuffix(res.URL, "/Blue-Dream.png"))
	require.NotNil(t, res.WebPURL)
	assert.True(t, strings.HasSuffix(*res.WebPURL, "/Blue-Dream.variant.webp"))
	assert.Equal(t, 2, store.Len())

	key := "media/product/" + res.MediaID.String() + "/Blue-Dream.png"
	obj, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)

	webp, ok := store.Get(strings.TrimSuffix(key, ".png") + ".variant.webp")
	require.True(t, ok)
	assert.Equal(t, "image/webp", webp.ContentType)

	row, err := repo.FindByID(ctx, res.MediaID)
	require.NoError(t, err)
	assert.Equal(t, key, row.GCSKey)
	assert.Equal(t, enums.MediaKindProduct, row.Kind)
}

func TestUploadNamesObjectBySniffedContent(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()
	original := pngBytes(t, 12, 12)

	res, err := svc.Upload(ctx, UploadInput{
		Kind:     enums.MediaKindProduct,
		FileName: "photo.webp",
		Body:     bytes.NewReader(original),
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MimeType)
	require.NotNil(t, res.WebPURL)
	assert.NotEqual(t, res.URL, *res.WebPURL)
	assert.Equal(t, 2, store.Len())

	key := "media/product/" + res.MediaID.String() + "/photo.png"
	obj, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, 1, store.Writes(key))
	_, err = png.Decode(bytes.NewReader(obj.Body))
	require.NoError(t, err, "original must still be a PNG")

	row, err := repo.FindByID(ctx, res.MediaID)
	require.NoError(t, err)
	assert.Equal(t, key, row.GCSKey)
	assert.Equal(t, "photo.webp", row.FileName)

	require.NoError(t, svc.Delete(ctx, res.MediaID))
	assert.Equal(t, 0, store.Len())
}

func TestObjectFileName(t *testing.T) {
	id := uuid.MustParse("7f9c2ba4-e88f-427d-b1c5-5a4d2c3b1e00")
	cases := map[string]string{
		"photo.webp":     "photo.png",
		"Blue Dream.PNG": "Blue-Dream.png",
		"archive.tar.gz": "archive.tar.png",
		"":               id.String() + ".png",
		"  ":             id.String() + ".png",
	}
	for in, want := range cases {
		assert.Equal(t, want, objectFileName(in, ".png", id), "input %q", in)
	}
}

func TestUploadKeepsOriginalWhenVariantFails(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	svc.(*service).store = &failingWebPStore{Memory: store}

	res, err := svc.Upload(ctx, UploadInput{
		Kind:     enums.MediaKindLogo,
		FileName: "logo.png",
		Body:     bytes.NewReader(pngBytes(t, 8, 8)),
	})
	require.NoError(t, err)
	assert.Nil(t, res.WebPURL)
	assert.Equal(t, 1, store.Len())
}

type failingWebPStore struct {
	*storagetest.Memory
}

func (f *failingWebPStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if strings.HasSuffix(key, ".webp") {
		return "", errors.New("bucket unavailable")
	}
	return f.Memory.Upload(ctx, key, contentType, body)
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	svc, _, store := newTestService(t)

	_, err := svc.Upload(context.Background(), UploadInput{
		Kind:     enums.MediaKindOGImage,
		FileName: "notes.txt",
		Body:     strings.NewReader("just some plain text"),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, 0, store.Len())
}

func TestUploadRejectsOversizedPayload(t *testing.T) {
	svc, _, store := newTestService(t)

	body := bytes.Repeat([]byte{0x1}, 1024*1024+1)
	_, err := svc.Upload(context.Background(), UploadInput{
		Kind:     enums.MediaKindProduct,
		FileName: "big.bin",
		Body:     bytes.NewReader(body),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodePayloadTooLarge))
	assert.Equal(t, 0, store.Len())
}

func TestUploadRejectsInvalidKindAndEmptyBody(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadInput{Kind: "banner", Body: strings.NewReader("x")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Upload(ctx, UploadInput{Kind: enums.MediaKindLogo, Body: bytes.NewReader(nil)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUploadReportsStoreFailure(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.(*service).store = &failingStore{}

	_, err := svc.Upload(context.Background(), UploadInput{
		Kind:     enums.MediaKindFavicon,
		FileName: "favicon.png",
		Body:     bytes.NewReader(pngBytes(t, 4, 4)),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		id := uuid.New()
		ids = append(ids, id)
		dbtest.MustCreate(t, repo.db, &models.Media{
			ID:        id,
			Kind:      enums.MediaKindProduct,
			GCSKey:    "media/product/" + id.String() + "/a.png",
			URL:       "https://storage.test/" + id.String(),
			FileName:  "a.png",
			MimeType:  "image/png",
			SizeBytes: 10,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	logoID := uuid.New()
	dbtest.MustCreate(t, repo.db, &models.Media{
		ID:        logoID,
		Kind:      enums.MediaKindLogo,
		GCSKey:    "media/logo/" + logoID.String() + "/logo.png",
		URL:       "https://storage.test/logo",
		FileName:  "logo.png",
		MimeType:  "image/png",
		CreatedAt: base.Add(time.Hour),
	})

	kind := enums.MediaKindProduct
	first, err := svc.List(ctx, ListParams{Kind: &kind, Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.Equal(t, ids[2], first.Items[0].ID)
	assert.Equal(t, ids[1], first.Items[1].ID)
	require.NotEmpty(t, first.Cursor)

	second, err := svc.List(ctx, ListParams{Kind: &kind, Limit: 2, Cursor: first.Cursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, ids[0], second.Items[0].ID)
	assert.Empty(t, second.Cursor)

	all, err := svc.List(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, all.Items, 4)
	assert.Equal(t, logoID, all.Items[0].ID)
}

func TestListRejectsBadCursor(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.List(context.Background(), ListParams{Cursor: "not-a-cursor"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDeleteRemovesObjectAndRow(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, UploadInput{
		Kind:     enums.MediaKindOGImage,
		FileName: "share.png",
		Body:     bytes.NewReader(pngBytes(t, 4, 4)),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, res.MediaID))
	assert.Equal(t, 0, store.Len())

	_, err = repo.FindByID(ctx, res.MediaID)
	require.Error(t, err)

	err = svc.Delete(ctx, res.MediaID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"":                  "",
		"  ":                "",
		"photo.png":         "photo.png",
		"../../etc/passwd":  "passwd",
		`C:\Users\me\a.png`: "a.png",
		"my file name.jpg":  "my-file-name.jpg",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFileName(in), "input %q", in)
	}
}

type failingStore struct{}

func (failingStore) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (failingStore) Delete(context.Context, string) error { return nil }

func (failingStore) PublicURL(key string) string { return key }
