package gate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/settings"
	pkgAuth "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/auth"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/config"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/security"
)

const invalidPasswordMessage = "invalid password"

// Service verifies gate passwords and manages the resulting sessions.
type Service interface {
	EnterStorefront(ctx context.Context, req StorefrontRequest) (*EnterResponse, error)
	EnterAdmin(ctx context.Context, req AdminRequest) (*EnterResponse, error)
	Logout(ctx context.Context, jti string) error
}

type passwordSource interface {
	PasswordHash(ctx context.Context, role enums.GateRole) (string, error)
	Welcome(ctx context.Context) (*settings.WelcomeDTO, error)
}

type sessionManager interface {
	Open(ctx context.Context, jti string, role enums.GateRole) error
	Revoke(ctx context.Context, jti string) error
}

// ServiceParams bundles the dependencies required to build a gate service.
type ServiceParams struct {
	Settings       passwordSource
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	settings passwordSource
	session  sessionManager
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs a gate service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Settings == nil {
		return nil, fmt.Errorf("settings source is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if strings.TrimSpace(params.JWTConfig.Secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		settings: params.Settings,
		session:  params.SessionManager,
		jwtCfg:   params.JWTConfig,
		logg:     logg,
		now:      now,
	}, nil
}

func (s *service) EnterStorefront(ctx context.Context, req StorefrontRequest) (*EnterResponse, error) {
	if !req.AgeConfirmed {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "age confirmation is required")
	}
	resp, err := s.enter(ctx, enums.GateRoleStorefront, req.Password)
	if err != nil {
		return nil, err
	}

	welcome, err := s.settings.Welcome(ctx)
	if err != nil {
		return nil, err
	}
	if welcome != nil {
		resp.Welcome = welcome.Instructions
	}
	return resp, nil
}

func (s *service) EnterAdmin(ctx context.Context, req AdminRequest) (*EnterResponse, error) {
	return s.enter(ctx, enums.GateRoleAdmin, req.Password)
}

func (s *service) enter(ctx context.Context, role enums.GateRole, password string) (*EnterResponse, error) {
	if password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	hash, err := s.settings.PasswordHash(ctx, role)
	if err != nil {
		return nil, err
	}
	if hash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("%s gate password has not been set", role))
	}

	ok, err := security.VerifyPassword(password, hash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		s.logg.Warn(s.logg.WithField(ctx, "gate_role", role.String()), "gate password rejected")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidPasswordMessage)
	}

	token, claims, err := pkgAuth.MintGateToken(s.jwtCfg, s.now(), pkgAuth.GateTokenPayload{
		Role:         role,
		AgeConfirmed: role == enums.GateRoleStorefront,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.session.Open(ctx, claims.ID, role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open gate session")
	}

	s.logg.Info(s.logg.WithRole(ctx, role.String()), "gate entered")
	return &EnterResponse{
		Token:     token,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the session tied to the token id.
func (s *service) Logout(ctx context.Context, jti string) error {
	if strings.TrimSpace(jti) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	if err := s.session.Revoke(ctx, jti); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke gate session")
	}
	return nil
}
