package controllers

import (
	"net/http"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/responses"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/icons"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
)

// AdminRegeneratePWAIcons rebuilds every PWA icon from the uploaded source
// image. A partial run still answers 200 and lists the failed artifacts.
func AdminRegeneratePWAIcons(svc icons.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "icon service unavailable"))
			return
		}

		file, _, err := formFile(w, r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		result, err := svc.Regenerate(r.Context(), file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
