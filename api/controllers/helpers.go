package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/validators"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/catalog"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
)

const (
	maxSearchLen   = 128
	maxCategoryLen = 64
	maxSortLen     = 32

	// multipartOverhead leaves room for boundaries and form fields on top of
	// the file itself.
	multipartOverhead = 1 << 20
)

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

// viewFilterFromQuery reads ?q=&category=&sort= and the collation locale from
// Accept-Language. An unknown sort key falls back to the stored order; an
// over-long search is a validation error.
func viewFilterFromQuery(r *http.Request) (catalog.ViewFilter, error) {
	search, err := validators.ParseQueryRaw(r, "q", maxSearchLen)
	if err != nil {
		return catalog.ViewFilter{}, err
	}
	sort, _ := catalog.ParseSortKey(validators.ParseQueryLower(r, "sort", maxSortLen))
	return catalog.ViewFilter{
		Search:   search,
		Category: validators.ParseQueryString(r, "category", maxCategoryLen),
		Sort:     sort,
		Locale:   requestLocale(r),
	}, nil
}

func requestLocale(r *http.Request) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return language.English
	}
	return tags[0]
}

// formFile reads the multipart "file" field, capping the request body at
// maxBytes plus form overhead.
func formFile(w http.ResponseWriter, r *http.Request, maxBytes int64) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, pkgerrors.New(pkgerrors.CodePayloadTooLarge, "upload is too large")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is required")
	}
	return file, header, nil
}
