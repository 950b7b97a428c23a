package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arduinodayph/adph-merch/api/responses"
	"github.com/arduinodayph/adph-merch/api/validators"
	"github.com/arduinodayph/adph-merch/internal/cart"
	"github.com/arduinodayph/adph-merch/pkg/logger"
)

type addLineRequest struct {
	ItemID   string        `json:"itemId" validate:"required"`
	Size     string        `json:"size"`
	Quantity cart.Quantity `json:"quantity"`
}

type updateLineRequest struct {
	Quantity *cart.Quantity `json:"quantity"`
	Step     *int           `json:"step"`
	Size     *string        `json:"size"`
}

// CartGet returns the stored bag.
func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Get(r.Context(), chi.URLParam(r, "cartId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddLine merges a selection into the bag.
func CartAddLine(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addLineRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddLine(r.Context(), chi.URLParam(r, "cartId"), cart.AddLineInput{
			ItemID:   req.ItemID,
			Size:     req.Size,
			Quantity: int(req.Quantity),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CartUpdateLine changes the quantity and/or size of one line.
func CartUpdateLine(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := validators.ParseIndex(chi.URLParam(r, "index"), "index")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateLineRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := cart.UpdateLineInput{Step: req.Step, Size: req.Size}
		if req.Quantity != nil {
			qty := int(*req.Quantity)
			input.Quantity = &qty
		}
		view, err := svc.UpdateLine(r.Context(), chi.URLParam(r, "cartId"), index, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartRemoveLine drops one line by position.
func CartRemoveLine(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := validators.ParseIndex(chi.URLParam(r, "index"), "index")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.RemoveLine(r.Context(), chi.URLParam(r, "cartId"), index)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartClear empties the bag.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), chi.URLParam(r, "cartId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.OK{OK: true})
	}
}
