package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tetshop/banhtet-backend/api/responses"
	"github.com/tetshop/banhtet-backend/api/validators"
	"github.com/tetshop/banhtet-backend/internal/catalog"
	"github.com/tetshop/banhtet-backend/pkg/logger"
)

type tierPriceRequest struct {
	TierID uuid.UUID `json:"tier_id" validate:"required"`
	Price  int64     `json:"price" validate:"required,min=1"`
}

type createProductRequest struct {
	Slug          string             `json:"slug" validate:"required,min=1,max=150"`
	Name          string             `json:"name" validate:"required,min=1,max=200"`
	Description   *string            `json:"description" validate:"omitempty,max=2000"`
	ImageURL      *string            `json:"image_url" validate:"omitempty,max=500"`
	GalleryImages []string           `json:"gallery_images" validate:"omitempty,dive,max=500"`
	WeightKg      decimal.Decimal    `json:"weight_kg"`
	IsAvailable   bool               `json:"is_available"`
	DisplayOrder  int                `json:"display_order" validate:"min=0"`
	TierPrices    []tierPriceRequest `json:"tier_prices" validate:"omitempty,dive"`
}

type updateProductRequest struct {
	Slug          *string          `json:"slug" validate:"omitempty,min=1,max=150"`
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=2000"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,max=500"`
	GalleryImages *[]string        `json:"gallery_images" validate:"omitempty,dive,max=500"`
	WeightKg      *decimal.Decimal `json:"weight_kg"`
	IsAvailable   *bool            `json:"is_available"`
	DisplayOrder  *int             `json:"display_order" validate:"omitempty,min=0"`
}

type setTierPricesRequest struct {
	Prices []tierPriceRequest `json:"prices" validate:"required,dive"`
}

func tierPriceInputs(prices []tierPriceRequest) []catalog.TierPriceInput {
	out := make([]catalog.TierPriceInput, 0, len(prices))
	for _, p := range prices {
		out = append(out, catalog.TierPriceInput{TierID: p.TierID, Price: p.Price})
	}
	return out
}

// AdminListProducts returns the whole catalog, hidden products included.
func AdminListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}

func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Slug:          body.Slug,
			Name:          body.Name,
			Description:   body.Description,
			ImageURL:      body.ImageURL,
			GalleryImages: body.GalleryImages,
			WeightKg:      body.WeightKg,
			IsAvailable:   body.IsAvailable,
			DisplayOrder:  body.DisplayOrder,
			TierPrices:    tierPriceInputs(body.TierPrices),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"product": product})
	}
}

func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, catalog.UpdateProductInput{
			Slug:          body.Slug,
			Name:          body.Name,
			Description:   body.Description,
			ImageURL:      body.ImageURL,
			GalleryImages: body.GalleryImages,
			WeightKg:      body.WeightKg,
			IsAvailable:   body.IsAvailable,
			DisplayOrder:  body.DisplayOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminSetTierPrices replaces a product's per-tier price list.
func AdminSetTierPrices(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setTierPricesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.SetTierPrices(r.Context(), productID, tierPriceInputs(body.Prices))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}
