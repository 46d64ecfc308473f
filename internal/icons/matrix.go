package icons

import (
	"fmt"
	"math"
)

// Purpose is the manifest "purpose" of an icon.
type Purpose string

const (
	PurposeAny      Purpose = "any"
	PurposeMaskable Purpose = "maskable"
)

// Format is the encoding of an icon payload.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatWebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

// DefaultSizes is the platform convention for PWA icon sizes.
var DefaultSizes = []int{72, 96, 128, 144, 152, 192, 384, 512}

// DefaultPaddingRatio is the maskable safe-zone padding per side.
const DefaultPaddingRatio = 0.1

var (
	purposes = []Purpose{PurposeAny, PurposeMaskable}
	formats  = []Format{FormatPNG, FormatWebP}
)

// Spec identifies one cell of the icon matrix.
type Spec struct {
	Size    int
	Purpose Purpose
	Format  Format
}

// Name is the deterministic object name: icon-{size}[-maskable].{format}.
func (s Spec) Name() string {
	if s.Purpose == PurposeMaskable {
		return fmt.Sprintf("icon-%d-maskable.%s", s.Size, s.Format)
	}
	return fmt.Sprintf("icon-%d.%s", s.Size, s.Format)
}

// SizesAttr renders the manifest "sizes" member, e.g. "192x192".
func (s Spec) SizesAttr() string {
	return fmt.Sprintf("%dx%d", s.Size, s.Size)
}

func (s Spec) String() string {
	return s.Name()
}

// Matrix enumerates specs in generation order: sizes outermost, then
// purpose, then format.
func Matrix(sizes []int, formatSet []Format) []Spec {
	specs := make([]Spec, 0, len(sizes)*len(purposes)*len(formatSet))
	for _, size := range sizes {
		specs = append(specs, sizeSpecs(size, formatSet)...)
	}
	return specs
}

func sizeSpecs(size int, formatSet []Format) []Spec {
	specs := make([]Spec, 0, len(purposes)*len(formatSet))
	for _, purpose := range purposes {
		for _, format := range formatSet {
			specs = append(specs, Spec{Size: size, Purpose: purpose, Format: format})
		}
	}
	return specs
}

// Padding returns round(size*ratio), the maskable padding on each side.
func Padding(size int, ratio float64) int {
	return int(math.Round(float64(size) * ratio))
}

// ContentSize returns size-2*padding, the edge of the maskable content box.
func ContentSize(size int, ratio float64) int {
	return size - 2*Padding(size, ratio)
}
