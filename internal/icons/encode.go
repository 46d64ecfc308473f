package icons

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
)

// Encoder writes img in one format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// EncoderFunc adapts a function into an Encoder.
type EncoderFunc func(w io.Writer, img image.Image) error

func (f EncoderFunc) Encode(w io.Writer, img image.Image) error {
	return f(w, img)
}

var pngEncoder = &png.Encoder{CompressionLevel: png.BestCompression}

// PNGEncoder encodes with best compression.
var PNGEncoder Encoder = EncoderFunc(func(w io.Writer, img image.Image) error {
	return pngEncoder.Encode(w, img)
})

// WebPEncoder produces lossless WebP.
var WebPEncoder Encoder = EncoderFunc(func(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
})

// DefaultEncoders maps every format onto its encoder.
func DefaultEncoders() map[Format]Encoder {
	return map[Format]Encoder{
		FormatPNG:  PNGEncoder,
		FormatWebP: WebPEncoder,
	}
}

func encode(enc Encoder, img image.Image, format Format) ([]byte, error) {
	if enc == nil {
		return nil, fmt.Errorf("no encoder registered for %s", format)
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
