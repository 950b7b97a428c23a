package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgAuth "github.com/arduinodayph/adph-merch/pkg/auth"
	"github.com/arduinodayph/adph-merch/pkg/enums"
	pkgerrors "github.com/arduinodayph/adph-merch/pkg/errors"
	"github.com/google/uuid"
)

type stubAuthenticator struct {
	claims   *pkgAuth.AccessTokenClaims
	err      error
	gotToken string
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*pkgAuth.AccessTokenClaims, error) {
	s.gotToken = token
	return s.claims, s.err
}

func TestAdminAuthRejectsWithServiceError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"missing", pkgerrors.New(pkgerrors.CodeUnauthorized, "Missing token."), http.StatusUnauthorized, "Missing token."},
		{"invalid", pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid token."), http.StatusUnauthorized, "Invalid token."},
		{"non admin", pkgerrors.New(pkgerrors.CodeForbidden, "Admin access required."), http.StatusForbidden, "Admin access required."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			authn := &stubAuthenticator{err: tc.err}
			called := false
			handler := AdminAuth(authn, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if called {
				t.Fatal("handler should not run")
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, rec.Code)
			}
			var body struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tc.message {
				t.Fatalf("expected %q got %q", tc.message, body.Error)
			}
		})
	}
}

func TestAdminAuthSeedsContext(t *testing.T) {
	userID := uuid.New()
	authn := &stubAuthenticator{claims: &pkgAuth.AccessTokenClaims{UserID: userID, Role: enums.AppRoleAdmin}}

	var gotUser, gotRole string
	handler := AdminAuth(authn, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer  abc.def.ghi ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if authn.gotToken != "abc.def.ghi" {
		t.Fatalf("expected bearer prefix stripped, got %q", authn.gotToken)
	}
	if gotUser != userID.String() || gotRole != string(enums.AppRoleAdmin) {
		t.Fatalf("unexpected context user=%s role=%s", gotUser, gotRole)
	}
}
