package controllers

import (
	"net/http"
	"strconv"

	"github.com/arduinodayph/adph-merch/api/middleware"
	"github.com/arduinodayph/adph-merch/api/responses"
	"github.com/arduinodayph/adph-merch/api/validators"
	internalorders "github.com/arduinodayph/adph-merch/internal/orders"
	"github.com/arduinodayph/adph-merch/pkg/db/models"
	"github.com/arduinodayph/adph-merch/pkg/logger"
)

const filterQueryMaxLen = 200

type orderListResponse struct {
	Orders []internalorders.Summary `json:"orders"`
}

type updateOrderRequest struct {
	ID      string                 `json:"id"`
	Status  string                 `json:"status"`
	Email   string                 `json:"email"`
	Phone   string                 `json:"phone"`
	Address string                 `json:"address"`
	Items   []models.OrderLineItem `json:"items"`
}

// AdminListOrders returns every order, newest first, narrowed by the optional q/status filters.
func AdminListOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListOrders(r.Context(), filterFromQuery(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if rows == nil {
			rows = []internalorders.Summary{}
		}
		responses.WriteSuccess(w, orderListResponse{Orders: rows})
	}
}

// AdminUpdateOrder applies a partial edit and reports any notification failure as emailError.
func AdminUpdateOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateOrder(r.Context(), internalorders.UpdateOrderInput{
			ID:      req.ID,
			Status:  req.Status,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
			Items:   req.Items,

			UpdatedBy:     middleware.UserIDFromContext(r.Context()),
			UpdatedByRole: middleware.RoleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminExportOrders streams the filtered orders as a CSV attachment.
func AdminExportOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := svc.ExportCSV(r.Context(), filterFromQuery(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+internalorders.ExportFilename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(payload); err != nil && logg != nil {
			logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "orders.export_write_failed")
		}
	}
}

// AdminOrderStats returns the dashboard counters.
func AdminOrderStats(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func filterFromQuery(r *http.Request) internalorders.Filter {
	return internalorders.Filter{
		Query:  validators.QueryString(r, "q", filterQueryMaxLen),
		Status: validators.QueryString(r, "status", filterQueryMaxLen),
	}
}
