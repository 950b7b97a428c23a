package controllers

import (
	"net/http"

	"github.com/arduinodayph/adph-merch/api/responses"
	"github.com/arduinodayph/adph-merch/api/validators"
	"github.com/arduinodayph/adph-merch/internal/auth"
	"github.com/arduinodayph/adph-merch/pkg/logger"
)

// AdminLogin exchanges operator credentials for a bearer token.
func AdminLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.SignInRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.SignIn(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AdminLogout revokes the session behind the bearer token.
func AdminLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.SignOut(r.Context(), validators.BearerToken(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.OK{OK: true})
	}
}
