package icons

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/config"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/storage/storagetest"
)

func newTestPipeline(t *testing.T, store *storagetest.Memory, options ...Option) *Pipeline {
	t.Helper()
	opts := DefaultOptions()
	opts.ObjectPrefix = "pwa-icons"
	p, err := NewPipeline(store, opts, nil, options...)
	require.NoError(t, err)
	return p
}

func TestMatrixOrderAndNames(t *testing.T) {
	specs := Matrix(DefaultSizes, []Format{FormatPNG, FormatWebP})
	require.Len(t, specs, 32)

	assert.Equal(t, []string{
		"icon-72.png", "icon-72.webp", "icon-72-maskable.png", "icon-72-maskable.webp",
	}, []string{specs[0].Name(), specs[1].Name(), specs[2].Name(), specs[3].Name()})
	assert.Equal(t, "icon-512-maskable.webp", specs[31].Name())
	assert.Equal(t, "512x512", specs[31].SizesAttr())

	seen := map[string]bool{}
	for _, spec := range specs {
		require.False(t, seen[spec.Name()], "duplicate artifact %s", spec.Name())
		seen[spec.Name()] = true
	}
}

func TestRunProducesFullMatrix(t *testing.T) {
	store := storagetest.NewMemory()
	p := newTestPipeline(t, store)

	result, err := p.Run(context.Background(), solidSource(512, 512, red))
	require.NoError(t, err)
	require.Len(t, result.Artifacts, 32)
	assert.Empty(t, result.Failures)
	assert.False(t, result.Partial())
	assert.NoError(t, result.Err())
	assert.Equal(t, 32, store.Len())

	for i, spec := range p.Matrix() {
		artifact := result.Artifacts[i]
		assert.Equal(t, spec, artifact.Spec)
		assert.Equal(t, "pwa-icons/"+spec.Name(), artifact.Key)
		assert.Equal(t, store.PublicURL(artifact.Key), artifact.URL)
		obj, ok := store.Get(artifact.Key)
		require.True(t, ok)
		assert.Equal(t, spec.Format.ContentType(), obj.ContentType)
		assert.Equal(t, artifact.Bytes, len(obj.Body))
	}
}

func TestRunEncodesDecodableImages(t *testing.T) {
	store := storagetest.NewMemory()
	p := newTestPipeline(t, store)

	_, err := p.Run(context.Background(), solidSource(512, 512, red))
	require.NoError(t, err)

	obj, ok := store.Get("pwa-icons/icon-192-maskable.png")
	require.True(t, ok)
	img, err := png.Decode(bytes.NewReader(obj.Body))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 192, 192), img.Bounds())
	assertRGBA(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.At(18, 96))
	assertRGBA(t, red, img.At(19, 96))
	assertRGBA(t, red, img.At(172, 96))
	assertRGBA(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.At(173, 96))

	obj, ok = store.Get("pwa-icons/icon-96.webp")
	require.True(t, ok)
	img, err = webp.Decode(bytes.NewReader(obj.Body))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 96, 96), img.Bounds())
	assertRGBA(t, red, img.At(0, 0))
}

func assertRGBA(t *testing.T, want color.RGBA, got color.Color) {
	t.Helper()
	assert.Equal(t, want, color.RGBAModel.Convert(got).(color.RGBA))
}

func TestRunIsolatesUploadFailure(t *testing.T) {
	store := storagetest.NewMemory()
	store.Fail("pwa-icons/icon-192-maskable.webp", errors.New("bucket unavailable"))

	p := newTestPipeline(t, store)

	result, err := p.Run(context.Background(), solidSource(512, 512, red))
	require.NoError(t, err)
	assert.Len(t, result.Artifacts, 31)
	require.Len(t, result.Failures, 1)
	assert.True(t, result.Partial())
	assert.Equal(t, "icon-192-maskable.webp", result.Failures[0].Name())
	assert.ErrorContains(t, result.Err(), "bucket unavailable")
	assert.Equal(t, 31, store.Len())

	// sizes after the failure still complete
	_, ok := store.Get("pwa-icons/icon-512-maskable.webp")
	assert.True(t, ok)
}

func TestRunIsolatesEncoderFailure(t *testing.T) {
	store := storagetest.NewMemory()
	broken := EncoderFunc(func(io.Writer, image.Image) error { return errors.New("codec missing") })
	p := newTestPipeline(t, store, WithEncoder(FormatWebP, broken))

	result, err := p.Run(context.Background(), solidSource(128, 128, red))
	require.NoError(t, err)
	assert.Len(t, result.Artifacts, 16)
	assert.Len(t, result.Failures, 16)
	for _, f := range result.Failures {
		assert.Equal(t, FormatWebP, f.Format)
	}
}

func TestRunIsIdempotentUnderUpsert(t *testing.T) {
	store := storagetest.NewMemory()
	p := newTestPipeline(t, store)
	src := solidSource(512, 512, red)

	first, err := p.Run(context.Background(), src)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, second.Artifacts, len(first.Artifacts))
	for i := range first.Artifacts {
		assert.Equal(t, first.Artifacts[i].URL, second.Artifacts[i].URL)
	}
	assert.Equal(t, 32, store.Len())
	assert.Equal(t, 2, store.Writes("pwa-icons/icon-72.png"))
}

// trackingStore records how uploads overlap across sizes.
type trackingStore struct {
	*storagetest.Memory
	mu          sync.Mutex
	inFlight    map[int]int
	maxInFlight int
	overlapped  bool
	sizeOf      map[string]int
}

func (s *trackingStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	size := s.sizeOf[key]
	s.mu.Lock()
	s.inFlight[size]++
	total := 0
	for sz, n := range s.inFlight {
		if n > 0 && sz != size {
			s.overlapped = true
		}
		total += n
	}
	if total > s.maxInFlight {
		s.maxInFlight = total
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight[size]--
		s.mu.Unlock()
	}()
	return s.Memory.Upload(ctx, key, contentType, body)
}

func TestGenerateRunsSizesSequentially(t *testing.T) {
	store := &trackingStore{
		Memory:   storagetest.NewMemory(),
		inFlight: map[int]int{},
		sizeOf:   map[string]int{},
	}
	opts := DefaultOptions()
	p, err := NewPipeline(store, opts, nil)
	require.NoError(t, err)
	for _, spec := range p.Matrix() {
		store.sizeOf[p.Key(spec)] = spec.Size
	}

	var order []string
	for artifact, err := range p.Generate(context.Background(), solidSource(256, 256, red)) {
		require.NoError(t, err)
		order = append(order, artifact.Name())
	}

	expected := make([]string, 0, 32)
	for _, spec := range p.Matrix() {
		expected = append(expected, spec.Name())
	}
	assert.Equal(t, expected, order)
	assert.False(t, store.overlapped, "uploads of different sizes overlapped")
	assert.LessOrEqual(t, store.maxInFlight, 4)
}

func TestGenerateStopsWhenConsumerBreaks(t *testing.T) {
	store := storagetest.NewMemory()
	p := newTestPipeline(t, store)

	count := 0
	for range p.Generate(context.Background(), solidSource(64, 64, red)) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
	// the first size was already uploaded as a unit; nothing after it
	assert.Equal(t, 4, store.Len())
}

func TestRunHonoursCancellation(t *testing.T) {
	store := storagetest.NewMemory()
	p := newTestPipeline(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := p.Run(ctx, solidSource(64, 64, red))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Artifacts)
	assert.True(t, result.Partial())
	assert.Zero(t, store.Len())
}

func TestRunRejectsEmptySource(t *testing.T) {
	p := newTestPipeline(t, storagetest.NewMemory())
	_, err := p.Run(context.Background(), image.NewRGBA(image.Rect(0, 0, 0, 0)))
	require.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := OptionsFromConfig(config.IconsConfig{
		Sizes:        []int{48, 96},
		PaddingRatio: 0.2,
		Background:   "#000",
		ObjectPrefix: "icons",
		EnableWebP:   false,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{48, 96}, opts.Sizes)
	assert.Equal(t, []Format{FormatPNG}, opts.Formats)
	assert.Equal(t, color.NRGBA{A: 255}, opts.Background)
	assert.Len(t, Matrix(opts.Sizes, opts.Formats), 4)

	_, err = OptionsFromConfig(config.IconsConfig{PaddingRatio: 0.1, Background: "not-a-colour"})
	assert.Error(t, err)
	_, err = OptionsFromConfig(config.IconsConfig{Sizes: []int{-1}, Background: "#fff"})
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#FFAA0080")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xaa, B: 0x00, A: 0x80}, c)

	c, err = ParseHexColor("fff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, c)

	_, err = ParseHexColor("#12345")
	assert.Error(t, err)
}
