package enums

import "fmt"

// GateRole identifies which password gate a session passed.
type GateRole string

const (
	GateRoleStorefront GateRole = "storefront"
	GateRoleAdmin      GateRole = "admin"
)

func (r GateRole) String() string {
	return string(r)
}

func (r GateRole) IsValid() bool {
	return r == GateRoleStorefront || r == GateRoleAdmin
}

// Satisfies reports whether a session holding r may access routes that
// require the given role. Admins may browse the storefront.
func (r GateRole) Satisfies(required GateRole) bool {
	if r == required {
		return true
	}
	return r == GateRoleAdmin && required == GateRoleStorefront
}

func ParseGateRole(value string) (GateRole, error) {
	candidate := GateRole(value)
	if candidate.IsValid() {
		return candidate, nil
	}
	return "", fmt.Errorf("invalid gate role %q", value)
}
