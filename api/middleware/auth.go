package middleware

import (
	"context"
	"net/http"

	"github.com/arduinodayph/adph-merch/api/responses"
	"github.com/arduinodayph/adph-merch/api/validators"
	pkgAuth "github.com/arduinodayph/adph-merch/pkg/auth"
	"github.com/arduinodayph/adph-merch/pkg/logger"
)

type tokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*pkgAuth.AccessTokenClaims, error)
}

// AdminAuth validates the bearer token and seeds the request context with the operator claims.
func AdminAuth(authn tokenAuthenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authn.Authenticate(r.Context(), validators.BearerToken(r))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithRole(ctx, string(claims.Role))
			if logg != nil {
				ctx = logg.WithFields(logg.WithUserID(ctx, claims.UserID.String()), map[string]any{
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
