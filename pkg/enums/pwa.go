package enums

import (
	"fmt"
	"slices"
)

// PWADisplayMode mirrors the manifest "display" member.
type PWADisplayMode string

const (
	PWADisplayFullscreen PWADisplayMode = "fullscreen"
	PWADisplayStandalone PWADisplayMode = "standalone"
	PWADisplayMinimalUI  PWADisplayMode = "minimal-ui"
	PWADisplayBrowser    PWADisplayMode = "browser"
)

var validDisplayModes = []PWADisplayMode{
	PWADisplayFullscreen,
	PWADisplayStandalone,
	PWADisplayMinimalUI,
	PWADisplayBrowser,
}

func (m PWADisplayMode) IsValid() bool {
	return slices.Contains(validDisplayModes, m)
}

func ParsePWADisplayMode(value string) (PWADisplayMode, error) {
	candidate := PWADisplayMode(value)
	if candidate.IsValid() {
		return candidate, nil
	}
	return "", fmt.Errorf("invalid display mode %q", value)
}

// PWAOrientation mirrors the manifest "orientation" member.
type PWAOrientation string

const (
	PWAOrientationAny       PWAOrientation = "any"
	PWAOrientationNatural   PWAOrientation = "natural"
	PWAOrientationPortrait  PWAOrientation = "portrait"
	PWAOrientationLandscape PWAOrientation = "landscape"
)

var validOrientations = []PWAOrientation{
	PWAOrientationAny,
	PWAOrientationNatural,
	PWAOrientationPortrait,
	PWAOrientationLandscape,
}

func (o PWAOrientation) IsValid() bool {
	return slices.Contains(validOrientations, o)
}

func ParsePWAOrientation(value string) (PWAOrientation, error) {
	candidate := PWAOrientation(value)
	if candidate.IsValid() {
		return candidate, nil
	}
	return "", fmt.Errorf("invalid orientation %q", value)
}
