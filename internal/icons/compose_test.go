package icons

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.RGBA{R: 255, A: 255}

func solidSource(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPaddingForDefaultSizes(t *testing.T) {
	want := map[int][2]int{
		72:  {7, 58},
		96:  {10, 76},
		128: {13, 102},
		144: {14, 116},
		152: {15, 122},
		192: {19, 154},
		384: {38, 308},
		512: {51, 410},
	}
	for size, expected := range want {
		assert.Equal(t, expected[0], Padding(size, DefaultPaddingRatio), "padding for %d", size)
		assert.Equal(t, expected[1], ContentSize(size, DefaultPaddingRatio), "content for %d", size)
	}
}

func TestPaddingIsComputedForArbitrarySizes(t *testing.T) {
	assert.Equal(t, 15, Padding(100, 0.15))
	assert.Equal(t, 70, ContentSize(100, 0.15))
	// 2.5 rounds half away from zero.
	assert.Equal(t, 3, Padding(25, DefaultPaddingRatio))
	assert.Equal(t, 19, ContentSize(25, DefaultPaddingRatio))
}

func TestResizeStretchesToSquare(t *testing.T) {
	out := Resize(solidSource(300, 100, red), 96)
	require.Equal(t, image.Rect(0, 0, 96, 96), out.Bounds())
	assert.Equal(t, red, out.RGBAAt(0, 0))
	assert.Equal(t, red, out.RGBAAt(95, 95))
}

func TestComposeMaskableCentresContent(t *testing.T) {
	canvas, content := ComposeMaskable(solidSource(512, 512, red), 192, DefaultPaddingRatio, color.White)

	require.Equal(t, image.Rect(0, 0, 192, 192), canvas.Bounds())
	require.Equal(t, image.Rect(19, 19, 173, 173), content)
	assert.Equal(t, 154, content.Dx())
	assert.Equal(t, 154, content.Dy())

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	coloured := 0
	for y := 0; y < 192; y++ {
		for x := 0; x < 192; x++ {
			px := canvas.RGBAAt(x, y)
			inside := image.Pt(x, y).In(content)
			if inside {
				require.Equal(t, red, px, "pixel (%d,%d) should be content", x, y)
				coloured++
				continue
			}
			require.Equal(t, white, px, "pixel (%d,%d) should be padding", x, y)
		}
	}
	assert.Equal(t, 154*154, coloured)
}

func TestComposeMaskableUsesBackground(t *testing.T) {
	bg := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	canvas, _ := ComposeMaskable(solidSource(64, 64, red), 72, DefaultPaddingRatio, bg)
	assert.Equal(t, bg, canvas.RGBAAt(0, 0))
	assert.Equal(t, red, canvas.RGBAAt(36, 36))
}
