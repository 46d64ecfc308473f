package gate

import (
	"time"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
)

// StorefrontRequest is posted by the age/password gate of the storefront.
type StorefrontRequest struct {
	Password     string `json:"password" validate:"required"`
	AgeConfirmed bool   `json:"age_confirmed"`
}

// AdminRequest is posted by the admin login screen.
type AdminRequest struct {
	Password string `json:"password" validate:"required"`
}

// EnterResponse carries the gate token and, for the storefront, the welcome
// block shown right after entry.
type EnterResponse struct {
	Token     string         `json:"token"`
	Role      enums.GateRole `json:"role"`
	ExpiresAt time.Time      `json:"expires_at"`
	Welcome   *string        `json:"welcome_instructions,omitempty"`
}
