package icons

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/storage/storagetest"
)

type recordingSink struct {
	calls int
	icons []models.PWAIcon
	err   error
}

func (r *recordingSink) ReplaceIcons(_ context.Context, icons []models.PWAIcon) error {
	r.calls++
	r.icons = icons
	return r.err
}

func failingEncode(io.Writer, image.Image) error {
	return errors.New("encoder broke")
}

func pngSource(t *testing.T, w, h int) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidSource(w, h, red)))
	return bytes.NewReader(buf.Bytes())
}

func newTestService(t *testing.T, store *storagetest.Memory, sink IconSink) Service {
	t.Helper()
	svc, err := NewService(newTestPipeline(t, store), sink, 1<<20, nil)
	require.NoError(t, err)
	return svc
}

func TestRegenerateStoresManifestIcons(t *testing.T) {
	store := storagetest.NewMemory()
	sink := &recordingSink{}
	svc := newTestService(t, store, sink)

	res, err := svc.Regenerate(context.Background(), pngSource(t, 256, 256))
	require.NoError(t, err)

	assert.False(t, res.Partial)
	assert.Empty(t, res.Failures)
	assert.Equal(t, 32, res.Expected)
	require.Len(t, res.Icons, 32)
	require.Equal(t, 1, sink.calls)
	assert.Equal(t, res.Icons, sink.icons)

	first := res.Icons[0]
	assert.Equal(t, "72x72", first.Sizes)
	assert.Equal(t, "image/png", first.Type)
	assert.Equal(t, "any", first.Purpose)
	assert.True(t, strings.HasSuffix(first.Src, "/pwa-icons/icon-72.png"))

	last := res.Icons[31]
	assert.Equal(t, "maskable", last.Purpose)
	assert.Equal(t, "image/webp", last.Type)
	assert.True(t, strings.HasSuffix(last.Src, "/pwa-icons/icon-512-maskable.webp"))
}

func TestRegenerateReportsPartialRun(t *testing.T) {
	store := storagetest.NewMemory()
	store.Fail("pwa-icons/icon-192-maskable.png", errors.New("quota exceeded"))
	sink := &recordingSink{}
	svc := newTestService(t, store, sink)

	res, err := svc.Regenerate(context.Background(), pngSource(t, 64, 64))
	require.NoError(t, err)

	assert.True(t, res.Partial)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "icon-192-maskable.png", res.Failures[0].Name)
	assert.Equal(t, 192, res.Failures[0].Size)
	assert.Contains(t, res.Failures[0].Error, "quota exceeded")
	assert.Len(t, res.Icons, 31)
	assert.Len(t, sink.icons, 31)
}

func TestRegenerateLeavesIconsWhenEverythingFails(t *testing.T) {
	store := storagetest.NewMemory()
	p := newTestPipeline(t, store,
		WithEncoder(FormatPNG, EncoderFunc(failingEncode)),
		WithEncoder(FormatWebP, EncoderFunc(failingEncode)),
	)
	sink := &recordingSink{}
	svc, err := NewService(p, sink, 1<<20, nil)
	require.NoError(t, err)

	res, err := svc.Regenerate(context.Background(), pngSource(t, 32, 32))
	require.NoError(t, err)
	assert.True(t, res.Partial)
	assert.Len(t, res.Failures, 32)
	assert.Empty(t, res.Icons)
	assert.Equal(t, 0, sink.calls)
}

func TestRegenerateRejectsBadSource(t *testing.T) {
	svc := newTestService(t, storagetest.NewMemory(), &recordingSink{})

	_, err := svc.Regenerate(context.Background(), strings.NewReader("not an image"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Regenerate(context.Background(), nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRegenerateRejectsOversizedSource(t *testing.T) {
	p := newTestPipeline(t, storagetest.NewMemory())
	svc, err := NewService(p, &recordingSink{}, 16, nil)
	require.NoError(t, err)

	_, err = svc.Regenerate(context.Background(), pngSource(t, 32, 32))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodePayloadTooLarge))
}

func TestRegenerateSurfacesSinkFailure(t *testing.T) {
	sink := &recordingSink{err: pkgerrors.New(pkgerrors.CodeDependency, "db down")}
	svc := newTestService(t, storagetest.NewMemory(), sink)

	_, err := svc.Regenerate(context.Background(), pngSource(t, 32, 32))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestRegenerateCancelled(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(t, storagetest.NewMemory(), sink)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Regenerate(ctx, pngSource(t, 32, 32))
	require.Error(t, err)
	assert.Equal(t, 0, sink.calls)
}
