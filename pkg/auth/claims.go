package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
)

// GateTokenPayload captures the data available when minting a gate JWT.
type GateTokenPayload struct {
	Role enums.GateRole
	// AgeConfirmed is true once the visitor confirmed the age prompt.
	AgeConfirmed bool
	JTI          string
}

// GateTokenClaims represents the typed JWT issued after passing a gate.
type GateTokenClaims struct {
	Role         enums.GateRole `json:"role"`
	AgeConfirmed bool           `json:"age_confirmed"`
	jwt.RegisteredClaims
}
