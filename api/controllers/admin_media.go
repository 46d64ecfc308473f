package controllers

import (
	"net/http"
	"strings"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/responses"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/validators"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/media"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/pagination"
)

func AdminListMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := media.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if raw := validators.ParseQueryString(r, "kind", 32); raw != "" {
			kind, err := enums.ParseMediaKind(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind"))
				return
			}
			params.Kind = &kind
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminUploadMedia stores a file in the media library. The form field "kind"
// picks the folder and defaults to product.
func AdminUploadMedia(svc media.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		file, header, err := formFile(w, r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		kind := enums.MediaKindProduct
		if raw := strings.TrimSpace(r.FormValue("kind")); raw != "" {
			kind, err = enums.ParseMediaKind(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind"))
				return
			}
		}

		result, err := svc.Upload(r.Context(), media.UploadInput{
			Kind:     kind,
			FileName: header.Filename,
			Body:     file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func AdminDeleteMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		id, err := pathUUID(r, "mediaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
