package settings

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/config"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/db/models"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/security"
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Service owns the singleton settings row.
type Service interface {
	Snapshot(ctx context.Context) (models.Settings, error)
	Get(ctx context.Context) (*SettingsDTO, error)
	Public(ctx context.Context) (*PublicSiteDTO, error)
	Welcome(ctx context.Context) (*WelcomeDTO, error)
	Manifest(ctx context.Context) (*Manifest, error)
	Update(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error)
	SetPasswords(ctx context.Context, input PasswordsInput) error
	SetAsset(ctx context.Context, kind enums.MediaKind, url string) (*SettingsDTO, error)
	ReplaceIcons(ctx context.Context, icons []models.PWAIcon) error
	PasswordHash(ctx context.Context, role enums.GateRole) (string, error)
	SeedPasswords(ctx context.Context, gate config.GateConfig) error
}

// UpdateSettingsInput holds optional mutations. Empty strings clear optional
// text fields.
type UpdateSettingsInput struct {
	SiteTitle          *string
	SiteDescription    *string
	HeaderColor        *string
	HeaderOpacity      *int
	SiteColor          *string
	SiteOpacity        *int
	Welcome            *string
	PWAName            *string
	PWAShortName       *string
	PWADescription     *string
	PWADisplay         *enums.PWADisplayMode
	PWAOrientation     *enums.PWAOrientation
	PWAThemeColor      *string
	PWABackgroundColor *string
	PWAStartURL        *string
	PWAScope           *string
	OGTitle            *string
	OGDescription      *string
	OGImageURL         *string
	OGURL              *string
}

// PasswordsInput changes one or both gate passwords.
type PasswordsInput struct {
	Storefront *string
	Admin      *string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	password config.PasswordConfig
	logg     *logger.Logger
}

// NewService constructs the settings service.
func NewService(repo *Repository, dbClient *db.Client, password config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, dbClient: dbClient, password: password, logg: logg}, nil
}

// Snapshot returns a copy of the current row for components that take the
// settings as an explicit value.
func (s *service) Snapshot(ctx context.Context) (models.Settings, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		return models.Settings{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load settings")
	}
	return *row, nil
}

func (s *service) Get(ctx context.Context) (*SettingsDTO, error) {
	row, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	dto := newSettingsDTO(&row)
	return &dto, nil
}

func (s *service) Public(ctx context.Context) (*PublicSiteDTO, error) {
	row, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	dto := newPublicSiteDTO(&row)
	return &dto, nil
}

func (s *service) Welcome(ctx context.Context) (*WelcomeDTO, error) {
	row, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &WelcomeDTO{Instructions: row.WelcomeInstructions}, nil
}

func (s *service) Manifest(ctx context.Context) (*Manifest, error) {
	row, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	m := BuildManifest(row)
	return &m, nil
}

func (s *service) Update(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error) {
	return s.mutate(ctx, "db: update settings", func(row *models.Settings) error {
		return applyUpdate(row, input)
	})
}

// SetPasswords stores argon2id hashes of the new gate passwords.
func (s *service) SetPasswords(ctx context.Context, input PasswordsInput) error {
	if input.Storefront == nil && input.Admin == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one password is required")
	}
	storefront, err := s.hashOptional(input.Storefront, "storefront")
	if err != nil {
		return err
	}
	admin, err := s.hashOptional(input.Admin, "admin")
	if err != nil {
		return err
	}

	_, err = s.mutate(ctx, "db: update passwords", func(row *models.Settings) error {
		if storefront != "" {
			row.StorefrontPasswordHash = storefront
		}
		if admin != "" {
			row.AdminPasswordHash = admin
		}
		return nil
	})
	if err == nil {
		s.logg.Info(ctx, "gate passwords updated")
	}
	return err
}

// SetAsset points the logo, favicon or Open Graph image at an uploaded URL.
func (s *service) SetAsset(ctx context.Context, kind enums.MediaKind, url string) (*SettingsDTO, error) {
	return s.mutate(ctx, "db: update settings asset", func(row *models.Settings) error {
		value := url
		switch kind {
		case enums.MediaKindLogo:
			row.LogoURL = &value
		case enums.MediaKindFavicon:
			row.FaviconURL = &value
		case enums.MediaKindOGImage:
			row.OGImageURL = &value
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("media kind %q is not a site asset", kind))
		}
		return nil
	})
}

// ReplaceIcons overwrites the manifest icon list.
func (s *service) ReplaceIcons(ctx context.Context, icons []models.PWAIcon) error {
	_, err := s.mutate(ctx, "db: update pwa icons", func(row *models.Settings) error {
		list := make(datatypes.JSONSlice[models.PWAIcon], 0, len(icons))
		row.PWAIcons = append(list, icons...)
		return nil
	})
	return err
}

// PasswordHash returns the stored hash for a gate; empty means unset.
func (s *service) PasswordHash(ctx context.Context, role enums.GateRole) (string, error) {
	row, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	switch role {
	case enums.GateRoleStorefront:
		return row.StorefrontPasswordHash, nil
	case enums.GateRoleAdmin:
		return row.AdminPasswordHash, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid gate role %q", role))
	}
}

// SeedPasswords fills empty hashes from the bootstrap passwords. Existing
// hashes are never replaced.
func (s *service) SeedPasswords(ctx context.Context, gate config.GateConfig) error {
	row, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	input := PasswordsInput{}
	if row.StorefrontPasswordHash == "" && gate.StorefrontPassword != "" {
		input.Storefront = &gate.StorefrontPassword
	}
	if row.AdminPasswordHash == "" && gate.AdminPassword != "" {
		input.Admin = &gate.AdminPassword
	}
	if input.Storefront == nil && input.Admin == nil {
		return nil
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"seed_storefront": input.Storefront != nil,
		"seed_admin":      input.Admin != nil,
	}), "seeding gate passwords")
	return s.SetPasswords(ctx, input)
}

func (s *service) mutate(ctx context.Context, op string, fn func(row *models.Settings) error) (*SettingsDTO, error) {
	var saved *models.Settings
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		row, err := txRepo.Get(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load settings")
		}
		if err := fn(row); err != nil {
			return err
		}
		saved, err = txRepo.Save(ctx, row)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	dto := newSettingsDTO(saved)
	return &dto, nil
}

func (s *service) hashOptional(password *string, gate string) (string, error) {
	if password == nil {
		return "", nil
	}
	if strings.TrimSpace(*password) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, gate+" password cannot be empty")
	}
	hash, err := security.HashPassword(*password, s.password)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return hash, nil
}

func applyUpdate(row *models.Settings, in UpdateSettingsInput) error {
	if in.SiteTitle != nil {
		row.SiteTitle = strings.TrimSpace(*in.SiteTitle)
	}
	setOptional(&row.SiteDescription, in.SiteDescription)
	setOptional(&row.WelcomeInstructions, in.Welcome)
	setOptional(&row.PWADescription, in.PWADescription)
	setOptional(&row.OGTitle, in.OGTitle)
	setOptional(&row.OGDescription, in.OGDescription)
	setOptional(&row.OGImageURL, in.OGImageURL)
	setOptional(&row.OGURL, in.OGURL)

	colors := []struct {
		field string
		dst   *string
		src   *string
	}{
		{"header_color", &row.HeaderColor, in.HeaderColor},
		{"site_color", &row.SiteColor, in.SiteColor},
		{"pwa_theme_color", &row.PWAThemeColor, in.PWAThemeColor},
		{"pwa_background_color", &row.PWABackgroundColor, in.PWABackgroundColor},
	}
	for _, c := range colors {
		if c.src == nil {
			continue
		}
		value := strings.TrimSpace(*c.src)
		if !hexColorRe.MatchString(value) {
			return pkgerrors.New(pkgerrors.CodeValidation, c.field+" must be a hex color")
		}
		*c.dst = value
	}

	for field, pair := range map[string]struct {
		dst *int
		src *int
	}{
		"header_opacity": {&row.HeaderOpacity, in.HeaderOpacity},
		"site_opacity":   {&row.SiteOpacity, in.SiteOpacity},
	} {
		if pair.src == nil {
			continue
		}
		if *pair.src < 0 || *pair.src > 100 {
			return pkgerrors.New(pkgerrors.CodeValidation, field+" must be between 0 and 100")
		}
		*pair.dst = *pair.src
	}

	if in.PWAName != nil {
		row.PWAName = strings.TrimSpace(*in.PWAName)
	}
	if in.PWAShortName != nil {
		row.PWAShortName = strings.TrimSpace(*in.PWAShortName)
	}
	if in.PWADisplay != nil {
		if !in.PWADisplay.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid pwa display mode")
		}
		row.PWADisplay = *in.PWADisplay
	}
	if in.PWAOrientation != nil {
		if !in.PWAOrientation.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid pwa orientation")
		}
		row.PWAOrientation = *in.PWAOrientation
	}
	if in.PWAStartURL != nil {
		row.PWAStartURL = firstNonEmpty(strings.TrimSpace(*in.PWAStartURL), "/")
	}
	if in.PWAScope != nil {
		row.PWAScope = firstNonEmpty(strings.TrimSpace(*in.PWAScope), "/")
	}
	return nil
}

func setOptional(dst **string, src *string) {
	if src == nil {
		return
	}
	clean := strings.TrimSpace(*src)
	if clean == "" {
		*dst = nil
		return
	}
	*dst = &clean
}
