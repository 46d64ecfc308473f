package enums

import "fmt"

// PrimaryMedia selects which asset represents a product in listings.
type PrimaryMedia string

const (
	PrimaryMediaImage PrimaryMedia = "image"
	PrimaryMediaVideo PrimaryMedia = "video"
)

func (p PrimaryMedia) String() string {
	return string(p)
}

func (p PrimaryMedia) IsValid() bool {
	return p == PrimaryMediaImage || p == PrimaryMediaVideo
}

func ParsePrimaryMedia(value string) (PrimaryMedia, error) {
	candidate := PrimaryMedia(value)
	if candidate.IsValid() {
		return candidate, nil
	}
	return "", fmt.Errorf("invalid primary media %q", value)
}
