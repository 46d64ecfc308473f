package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/responses"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/validators"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/media"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/settings"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
)

type updateSettingsRequest struct {
	SiteTitle          *string `json:"site_title,omitempty" validate:"omitempty,max=120"`
	SiteDescription    *string `json:"site_description,omitempty"`
	HeaderColor        *string `json:"header_color,omitempty" validate:"omitempty,hexcolor"`
	HeaderOpacity      *int    `json:"header_opacity,omitempty" validate:"omitempty,gte=0,lte=100"`
	SiteColor          *string `json:"site_color,omitempty" validate:"omitempty,hexcolor"`
	SiteOpacity        *int    `json:"site_opacity,omitempty" validate:"omitempty,gte=0,lte=100"`
	Welcome            *string `json:"welcome_instructions,omitempty"`
	PWAName            *string `json:"pwa_name,omitempty" validate:"omitempty,max=120"`
	PWAShortName       *string `json:"pwa_short_name,omitempty" validate:"omitempty,max=32"`
	PWADescription     *string `json:"pwa_description,omitempty"`
	PWADisplay         *string `json:"pwa_display,omitempty"`
	PWAOrientation     *string `json:"pwa_orientation,omitempty"`
	PWAThemeColor      *string `json:"pwa_theme_color,omitempty" validate:"omitempty,hexcolor"`
	PWABackgroundColor *string `json:"pwa_background_color,omitempty" validate:"omitempty,hexcolor"`
	PWAStartURL        *string `json:"pwa_start_url,omitempty"`
	PWAScope           *string `json:"pwa_scope,omitempty"`
	OGTitle            *string `json:"og_title,omitempty"`
	OGDescription      *string `json:"og_description,omitempty"`
	OGImageURL         *string `json:"og_image_url,omitempty"`
	OGURL              *string `json:"og_url,omitempty"`
}

func (r updateSettingsRequest) toInput() (settings.UpdateSettingsInput, error) {
	input := settings.UpdateSettingsInput{
		SiteTitle:          r.SiteTitle,
		SiteDescription:    r.SiteDescription,
		HeaderColor:        r.HeaderColor,
		HeaderOpacity:      r.HeaderOpacity,
		SiteColor:          r.SiteColor,
		SiteOpacity:        r.SiteOpacity,
		Welcome:            r.Welcome,
		PWAName:            r.PWAName,
		PWAShortName:       r.PWAShortName,
		PWADescription:     r.PWADescription,
		PWAThemeColor:      r.PWAThemeColor,
		PWABackgroundColor: r.PWABackgroundColor,
		PWAStartURL:        r.PWAStartURL,
		PWAScope:           r.PWAScope,
		OGTitle:            r.OGTitle,
		OGDescription:      r.OGDescription,
		OGImageURL:         r.OGImageURL,
		OGURL:              r.OGURL,
	}
	if r.PWADisplay != nil {
		display, err := enums.ParsePWADisplayMode(*r.PWADisplay)
		if err != nil {
			return settings.UpdateSettingsInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pwa_display")
		}
		input.PWADisplay = &display
	}
	if r.PWAOrientation != nil {
		orientation, err := enums.ParsePWAOrientation(*r.PWAOrientation)
		if err != nil {
			return settings.UpdateSettingsInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pwa_orientation")
		}
		input.PWAOrientation = &orientation
	}
	return input, nil
}

type passwordsRequest struct {
	StorefrontPassword *string `json:"storefront_password,omitempty" validate:"omitempty,min=4,max=128"`
	AdminPassword      *string `json:"admin_password,omitempty" validate:"omitempty,min=8,max=128"`
}

func AdminGetSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		dto, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AdminUpdateSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var payload updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// AdminSetPasswords changes one or both gate passwords. Existing sessions
// stay valid until they expire or log out.
func AdminSetPasswords(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var payload passwordsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetPasswords(r.Context(), settings.PasswordsInput{
			Storefront: payload.StorefrontPassword,
			Admin:      payload.AdminPassword,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// AdminUploadSiteAsset uploads a logo, favicon or Open Graph image and points
// the settings at it. The kind comes from the {kind} path segment.
func AdminUploadSiteAsset(svc settings.Service, mediaSvc media.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || mediaSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		kind, err := enums.ParseMediaKind(strings.TrimSpace(chi.URLParam(r, "kind")))
		if err != nil || !kind.IsSiteAsset() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "asset kind must be logo, favicon or og_image"))
			return
		}

		file, header, err := formFile(w, r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		uploaded, err := mediaSvc.Upload(r.Context(), media.UploadInput{
			Kind:     kind,
			FileName: header.Filename,
			Body:     file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SetAsset(r.Context(), kind, uploaded.URL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
