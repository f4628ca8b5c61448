package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tetshop/banhtet-backend/api/responses"
	"github.com/tetshop/banhtet-backend/api/validators"
	"github.com/tetshop/banhtet-backend/internal/cart"
	"github.com/tetshop/banhtet-backend/internal/checkout"
	"github.com/tetshop/banhtet-backend/internal/orders"
	"github.com/tetshop/banhtet-backend/pkg/config"
	pkgerrors "github.com/tetshop/banhtet-backend/pkg/errors"
	"github.com/tetshop/banhtet-backend/pkg/logger"
)

type checkoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1,max=99"`
	UnitPrice int64     `json:"unit_price" validate:"min=0"`
}

type checkoutRequest struct {
	CustomerName    string                `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone   string                `json:"customer_phone" validate:"required"`
	CustomerEmail   *string               `json:"customer_email" validate:"omitempty,email"`
	DeliveryAddress string                `json:"delivery_address" validate:"required,min=10,max=500"`
	DeliveryDate    string                `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	Notes           *string               `json:"notes" validate:"omitempty,max=500"`
	Items           []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount     int64                 `json:"total_amount" validate:"min=0"`
}

// SubmitOrder turns the submitted cart into a persisted order. Prices are
// recomputed server side; the visitor's cart is dropped once the order lands.
func SubmitOrder(svc checkout.Service, cartStore *cart.Store, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkout.SubmitOrderInput{
			CustomerName:    body.CustomerName,
			CustomerPhone:   body.CustomerPhone,
			CustomerEmail:   body.CustomerEmail,
			DeliveryAddress: body.DeliveryAddress,
			DeliveryDate:    body.DeliveryDate,
			Notes:           body.Notes,
			TotalAmount:     body.TotalAmount,
		}
		for _, item := range body.Items {
			input.Items = append(input.Items, checkout.SubmitItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		result, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if cartStore != nil {
			if cookie, cerr := r.Cookie(cartCfg.CookieName); cerr == nil && cookie.Value != "" {
				if derr := cartStore.Delete(r.Context(), cookie.Value); derr != nil && logg != nil {
					logg.Warn(logg.WithField(r.Context(), "order_code", result.OrderCode), "cart.clear.failed")
				}
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"order": result})
	}
}

// TrackOrder lets a customer look up their order by its public code.
func TrackOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		order, err := svc.TrackByCode(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order": order})
	}
}
