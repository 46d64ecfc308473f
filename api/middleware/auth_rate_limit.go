package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/responses"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// GateRateLimitPolicy throttles password attempts per client address.
type GateRateLimitPolicy struct {
	name   string
	window time.Duration
	limit  int64
}

func NewGateRateLimitPolicy(name string, window time.Duration, perIP int) GateRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "gate"
	}
	return GateRateLimitPolicy{name: name, window: window, limit: int64(perIP)}
}

func (p GateRateLimitPolicy) scope(client string) string {
	return "ip:" + p.name + ":" + client
}

func (p GateRateLimitPolicy) retryAfter() string {
	return strconv.Itoa(int(p.window.Round(time.Second).Seconds()))
}

// GateRateLimit counts attempts in a fixed window keyed by client address.
// A disabled policy or a nil store passes requests through.
func GateRateLimit(policy GateRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if policy.window <= 0 || policy.limit <= 0 || store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			client := clientKey(r)
			if client == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, attempts, err := store.FixedWindowAllow(ctx, policy.scope(client), policy.limit, policy.window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if allowed {
				next.ServeHTTP(w, r)
				return
			}

			if logg != nil {
				logg.Warn(logg.WithFields(ctx, map[string]any{
					"policy":   policy.name,
					"client":   client,
					"attempts": attempts,
					"limit":    policy.limit,
				}), "gate.rate_limit.blocked")
			}
			w.Header().Set("Retry-After", policy.retryAfter())
			responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
		})
	}
}

// clientKey resolves the caller address. IPv6 clients are grouped by /64
// since a single host usually owns the whole prefix.
func clientKey(r *http.Request) string {
	raw := firstForwarded(r.Header.Get("X-Forwarded-For"))
	if raw == "" {
		raw = strings.TrimSpace(r.Header.Get("X-Real-IP"))
	}
	if raw == "" {
		raw = r.RemoteAddr
		if host, _, err := net.SplitHostPort(raw); err == nil {
			raw = host
		}
	}

	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return raw
	}
	addr = addr.Unmap()
	if addr.Is6() {
		if prefix, err := addr.Prefix(64); err == nil {
			return prefix.String()
		}
	}
	return addr.String()
}

func firstForwarded(header string) string {
	for part := range strings.SplitSeq(header, ",") {
		if ip := strings.TrimSpace(part); ip != "" {
			return ip
		}
	}
	return ""
}
