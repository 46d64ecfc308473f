package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/config"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
)

// ErrSessionRevoked is returned when a token id no longer maps to a session.
var ErrSessionRevoked = errors.New("gate session revoked")

// Store is the key/value surface the manager needs. *redis.Client satisfies it.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	GateSessionKey(jti string) string
}

// Manager tracks which gate tokens are still live so logout can revoke them
// before they expire.
type Manager struct {
	store Store
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	Lookup(ctx context.Context, jti string) (enums.GateRole, error)
}

// NewManager constructs a session manager whose entries live as long as the
// gate token.
func NewManager(store Store, cfg config.JWTConfig) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("gate token ttl must be positive")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// Open records a freshly minted token id and its role.
func (m *Manager) Open(ctx context.Context, jti string, role enums.GateRole) error {
	if strings.TrimSpace(jti) == "" {
		return fmt.Errorf("token id is required")
	}
	if !role.IsValid() {
		return fmt.Errorf("invalid gate role %q", role)
	}
	return m.store.Set(ctx, m.store.GateSessionKey(jti), role.String(), m.ttl)
}

// Lookup returns the role stored for the token id, or ErrSessionRevoked.
func (m *Manager) Lookup(ctx context.Context, jti string) (enums.GateRole, error) {
	if strings.TrimSpace(jti) == "" {
		return "", ErrSessionRevoked
	}
	raw, err := m.store.Get(ctx, m.store.GateSessionKey(jti))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", ErrSessionRevoked
		}
		return "", err
	}
	role, err := enums.ParseGateRole(raw)
	if err != nil {
		return "", ErrSessionRevoked
	}
	return role, nil
}

// Revoke deletes the session tied to the token id.
func (m *Manager) Revoke(ctx context.Context, jti string) error {
	if strings.TrimSpace(jti) == "" {
		return fmt.Errorf("token id is required")
	}
	return m.store.Del(ctx, m.store.GateSessionKey(jti))
}
