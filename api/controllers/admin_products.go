package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/responses"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/api/validators"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/internal/media"
	product "github.com/leviwaynedaily/red-carpet-distro-sub000/internal/products"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/enums"
	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/types"
)

type createProductRequest struct {
	Name          string              `json:"name" validate:"required,notblank,max=200"`
	Description   *string             `json:"description,omitempty"`
	Strain        *string             `json:"strain,omitempty" validate:"omitempty,max=120"`
	THCPercent    *float64            `json:"thc_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Categories    []string            `json:"categories,omitempty" validate:"omitempty,dive,notblank"`
	Stock         *int                `json:"stock,omitempty" validate:"omitempty,gte=0"`
	RegularPrice  decimal.NullDecimal `json:"regular_price"`
	ShippingPrice decimal.NullDecimal `json:"shipping_price"`
	MediaType     string              `json:"media_type,omitempty" validate:"omitempty,oneof=image video"`
}

func (r createProductRequest) toInput() product.CreateProductInput {
	primary := enums.PrimaryMediaImage
	if r.MediaType != "" {
		primary = enums.PrimaryMedia(r.MediaType)
	}
	return product.CreateProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Strain:        r.Strain,
		THCPercent:    r.THCPercent,
		Categories:    r.Categories,
		Stock:         r.Stock,
		RegularPrice:  r.RegularPrice,
		ShippingPrice: r.ShippingPrice,
		PrimaryMedia:  primary,
	}
}

// updateProductRequest is a partial update. Prices use NullableDecimal so an
// explicit null clears them; THC and stock use explicit clear flags.
type updateProductRequest struct {
	Name            *string               `json:"name,omitempty" validate:"omitempty,notblank,max=200"`
	Description     *string               `json:"description,omitempty"`
	Strain          *string               `json:"strain,omitempty" validate:"omitempty,max=120"`
	THCPercent      *float64              `json:"thc_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	ClearTHCPercent bool                  `json:"clear_thc_percent,omitempty"`
	Categories      *[]string             `json:"categories,omitempty"`
	Stock           *int                  `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ClearStock      bool                  `json:"clear_stock,omitempty"`
	RegularPrice    types.NullableDecimal `json:"regular_price"`
	ShippingPrice   types.NullableDecimal `json:"shipping_price"`
	MediaType       *string               `json:"media_type,omitempty" validate:"omitempty,oneof=image video"`
}

func (r updateProductRequest) toInput() product.UpdateProductInput {
	input := product.UpdateProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Strain:        r.Strain,
		THCPercent:    r.THCPercent,
		ClearTHC:      r.ClearTHCPercent,
		Categories:    r.Categories,
		Stock:         r.Stock,
		ClearStock:    r.ClearStock,
		RegularPrice:  r.RegularPrice,
		ShippingPrice: r.ShippingPrice,
	}
	if r.MediaType != nil {
		primary := enums.PrimaryMedia(strings.TrimSpace(*r.MediaType))
		input.PrimaryMedia = &primary
	}
	return input
}

// AdminListProducts lists products with the same filters as the storefront
// but without display rules.
func AdminListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		filter, err := viewFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListAdmin(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminGetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AdminCreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func AdminUpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AdminDeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "productId")
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

// AdminUploadProductMedia stores an image or video for the product. Images
// set image_url and the WebP variant; videos set video_url and switch the
// product to video.
func AdminUploadProductMedia(products product.Service, mediaSvc media.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil || mediaSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := products.Get(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, header, err := formFile(w, r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		uploaded, err := mediaSvc.Upload(r.Context(), media.UploadInput{
			Kind:     enums.MediaKindProduct,
			FileName: header.Filename,
			Body:     file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		update := product.MediaUpdate{}
		if uploaded.IsVideo {
			update.VideoURL = &uploaded.URL
			update.PrimaryMedia = enums.PrimaryMediaVideo
		} else {
			update.ImageURL = &uploaded.URL
			update.WebPURL = uploaded.WebPURL
		}

		dto, err := products.SetMedia(r.Context(), id, update)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"product": dto,
			"media":   uploaded,
		})
	}
}
