package middleware

import (
	"context"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
)

type contextKey string

const (
	ctxGateRole  contextKey = "gate_role"
	ctxSessionID contextKey = "session_id"
)

func GateRoleFromContext(ctx context.Context) enums.GateRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxGateRole).(enums.GateRole); ok {
		return v
	}
	return ""
}

// SessionIDFromContext returns the jti of the gate token on the request.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithGateSession injects the gate role and session id into the context.
func WithGateSession(ctx context.Context, role enums.GateRole, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxGateRole, role)
	return context.WithValue(ctx, ctxSessionID, sessionID)
}
