package icons

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"slices"
	"strings"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/config"
)

// Options carries the business choices of a pipeline run.
type Options struct {
	Sizes        []int
	PaddingRatio float64
	Background   color.Color
	ObjectPrefix string
	Formats      []Format
}

// DefaultOptions is the platform-convention matrix: 8 sizes, both formats,
// 10% white maskable padding.
func DefaultOptions() Options {
	return Options{
		Sizes:        slices.Clone(DefaultSizes),
		PaddingRatio: DefaultPaddingRatio,
		Background:   color.White,
		Formats:      []Format{FormatPNG, FormatWebP},
	}
}

// OptionsFromConfig converts the env configuration into pipeline options.
func OptionsFromConfig(cfg config.IconsConfig) (Options, error) {
	opts := DefaultOptions()
	if len(cfg.Sizes) > 0 {
		opts.Sizes = slices.Clone(cfg.Sizes)
	}
	opts.PaddingRatio = cfg.PaddingRatio
	opts.ObjectPrefix = cfg.ObjectPrefix
	if !cfg.EnableWebP {
		opts.Formats = []Format{FormatPNG}
	}
	if strings.TrimSpace(cfg.Background) != "" {
		bg, err := ParseHexColor(cfg.Background)
		if err != nil {
			return Options{}, err
		}
		opts.Background = bg
	}
	return opts, opts.validate()
}

func (o Options) validate() error {
	if len(o.Sizes) == 0 {
		return fmt.Errorf("at least one icon size is required")
	}
	for _, size := range o.Sizes {
		if size <= 0 {
			return fmt.Errorf("icon size must be positive, got %d", size)
		}
	}
	if o.PaddingRatio < 0 || o.PaddingRatio >= 0.5 {
		return fmt.Errorf("padding ratio must be in [0, 0.5), got %v", o.PaddingRatio)
	}
	if len(o.Formats) == 0 {
		return fmt.Errorf("at least one icon format is required")
	}
	if o.Background == nil {
		return fmt.Errorf("background colour is required")
	}
	return nil
}

// ParseHexColor parses #RGB, #RRGGBB or #RRGGBBAA.
func ParseHexColor(raw string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex colour %q", raw)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex colour %q: %w", raw, err)
	}
	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}
