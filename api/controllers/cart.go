package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tetshop/banhtet-backend/api/responses"
	"github.com/tetshop/banhtet-backend/api/validators"
	"github.com/tetshop/banhtet-backend/internal/cart"
	"github.com/tetshop/banhtet-backend/internal/pricing"
	"github.com/tetshop/banhtet-backend/pkg/config"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	pkgerrors "github.com/tetshop/banhtet-backend/pkg/errors"
	"github.com/tetshop/banhtet-backend/pkg/logger"
)

type cartProductLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type cartTierResolver interface {
	TierForDate(ctx context.Context, date string) (*models.PriceTier, error)
}

// cartToken reads the visitor's cart token cookie, issuing a fresh one when
// absent so the cart survives page reloads without any signup.
func cartToken(w http.ResponseWriter, r *http.Request, cfg config.CartConfig) string {
	if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cfg.TTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func cartPayload(c *cart.Cart) map[string]any {
	return map[string]any{
		"cart":           c,
		"total_quantity": c.TotalQuantity(),
		"subtotal":       c.Subtotal(),
	}
}

// CartFetch returns the visitor's cart, empty if none exists yet.
func CartFetch(store *cart.Store, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := cartToken(w, r, cartCfg)
		c, err := store.Load(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(c))
	}
}

type cartAddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1,max=99"`
}

// CartAddItem adds a product to the cart, pricing it under the cart's
// current delivery tier.
func CartAddItem(store *cart.Store, products cartProductLoader, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartAddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := cartToken(w, r, cartCfg)
		c, err := store.Load(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.FindByID(r.Context(), body.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product"))
			return
		}
		if !product.IsAvailable {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product is not available"))
			return
		}

		c.AddItem(cart.Item{
			ProductID: product.ID,
			Slug:      product.Slug,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			UnitPrice: pricing.PriceFor(product, c.DeliveryTierID),
		}, body.Quantity)

		if err := store.Save(r.Context(), token, c); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(c))
	}
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=99"`
}

// CartUpdateQuantity sets a line's quantity; zero removes the line.
func CartUpdateQuantity(store *cart.Store, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := cartToken(w, r, cartCfg)
		c, err := store.Load(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c.UpdateQuantity(productID, body.Quantity)

		if err := store.Save(r.Context(), token, c); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(c))
	}
}

// CartRemoveItem drops a line from the cart.
func CartRemoveItem(store *cart.Store, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := cartToken(w, r, cartCfg)
		c, err := store.Load(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c.RemoveItem(productID)

		if err := store.Save(r.Context(), token, c); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(c))
	}
}

type cartDeliveryDateRequest struct {
	Date *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// CartSetDeliveryDate sets or clears the delivery date and reprices every
// line under the date's tier.
func CartSetDeliveryDate(store *cart.Store, products cartProductLoader, tiers cartTierResolver, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartDeliveryDateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := cartToken(w, r, cartCfg)
		c, err := store.Load(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var tierID *uuid.UUID
		if body.Date != nil && *body.Date != "" {
			tier, err := tiers.TierForDate(r.Context(), *body.Date)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if tier != nil {
				id := tier.ID
				tierID = &id
			}
			c.SetDeliveryDate(body.Date, tierID)
		} else {
			c.SetDeliveryDate(nil, nil)
		}

		for i := range c.Items {
			product, err := products.FindByID(r.Context(), c.Items[i].ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "repricing cart"))
				return
			}
			c.Items[i].UnitPrice = pricing.PriceFor(product, c.DeliveryTierID)
		}

		if err := store.Save(r.Context(), token, c); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(c))
	}
}

// CartClear empties the visitor's cart.
func CartClear(store *cart.Store, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := cartToken(w, r, cartCfg)
		if err := store.Delete(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(cart.New()))
	}
}
