package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tetshop/banhtet-backend/api/responses"
	"github.com/tetshop/banhtet-backend/api/validators"
	"github.com/tetshop/banhtet-backend/internal/statuses"
	"github.com/tetshop/banhtet-backend/pkg/logger"
)

type createStatusRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=50"`
	Color        string `json:"color" validate:"omitempty,max=20"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
}

type updateStatusRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=50"`
	Color        *string `json:"color" validate:"omitempty,max=20"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
}

func AdminListStatuses(svc statuses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListStatuses(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"statuses": list})
	}
}

func AdminCreateStatus(svc statuses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.CreateStatus(r.Context(), statuses.CreateStatusInput{
			Name:         body.Name,
			Color:        body.Color,
			DisplayOrder: body.DisplayOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"status": status})
	}
}

func AdminUpdateStatus(svc statuses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statusID, err := validators.PathUUID(chi.URLParam(r, "statusId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.UpdateStatus(r.Context(), statusID, statuses.UpdateStatusInput{
			Name:         body.Name,
			Color:        body.Color,
			DisplayOrder: body.DisplayOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": status})
	}
}

func AdminDeleteStatus(svc statuses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statusID, err := validators.PathUUID(chi.URLParam(r, "statusId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteStatus(r.Context(), statusID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
