package icons

import (
	"errors"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

var errEmptySource = errors.New("source image is empty")

// Resize scales src to size×size in one CatmullRom pass. Non-square sources
// are stretched.
func Resize(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// ComposeMaskable paints a size×size canvas with background and draws src
// scaled into the centred content box left by the padding ratio. It returns
// the canvas and the content rectangle.
func ComposeMaskable(src image.Image, size int, ratio float64, background color.Color) (*image.RGBA, image.Rectangle) {
	pad := Padding(size, ratio)
	inner := ContentSize(size, ratio)

	dc := gg.NewContext(size, size)
	dc.SetColor(background)
	dc.Clear()
	canvas, ok := dc.Image().(*image.RGBA)
	if !ok {
		canvas = image.NewRGBA(image.Rect(0, 0, size, size))
		draw.Draw(canvas, canvas.Bounds(), dc.Image(), image.Point{}, draw.Src)
	}

	content := image.Rect(pad, pad, pad+inner, pad+inner)
	if inner <= 0 {
		return canvas, image.Rectangle{}
	}
	draw.Draw(canvas, content, Resize(src, inner), image.Point{}, draw.Over)
	return canvas, content
}

// variants renders both purposes for one size.
func variants(src image.Image, size int, ratio float64, background color.Color) map[Purpose]image.Image {
	maskable, _ := ComposeMaskable(src, size, ratio, background)
	return map[Purpose]image.Image{
		PurposeAny:      Resize(src, size),
		PurposeMaskable: maskable,
	}
}
