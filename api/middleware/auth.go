package middleware

import (
	"errors"
	"net/http"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/responses"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/validators"
	pkgAuth "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/auth"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/auth/session"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/config"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
)

// GateAuth validates a bearer gate token and seeds the request context with
// its role and session id. The session must still be live in the checker.
func GateAuth(cfg config.JWTConfig, checker session.Checker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseGateToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if checker != nil {
				role, err := checker.Lookup(r.Context(), claims.ID)
				switch {
				case errors.Is(err, session.ErrSessionRevoked):
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				case err != nil:
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				case role != claims.Role:
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := WithGateSession(r.Context(), claims.Role, claims.ID)
			if logg != nil {
				ctx = logg.WithRole(ctx, claims.Role.String())
				ctx = logg.WithSessionID(ctx, claims.ID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
