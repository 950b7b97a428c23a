package controllers

import (
	"net/http"

	"github.com/arduinodayph/adph-merch/api/responses"
	"github.com/arduinodayph/adph-merch/internal/catalog"
	"github.com/arduinodayph/adph-merch/pkg/logger"
)

type merchListResponse struct {
	Items []catalog.Item `json:"items"`
}

// PublicMerch lists the active merch collection.
func PublicMerch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if items == nil {
			items = []catalog.Item{}
		}
		responses.WriteSuccess(w, merchListResponse{Items: items})
	}
}
