package gcs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func staticTokenSource(token string) *tokenSource {
	return &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			return token, time.Now().Add(time.Hour), nil
		},
	}
}

func TestBucketUpload(t *testing.T) {
	t.Parallel()

	var gotPath, gotName, gotType, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotName = r.URL.Query().Get("name")
		gotType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer srv.Close()

	client := &Client{
		httpClient:    srv.Client(),
		defaultBucket: "gcash-receipts",
		apiBaseURL:    srv.URL,
		tokenSource:   staticTokenSource("tok"),
	}

	err := client.BucketHandle("").Upload(context.Background(), "gcash/abc.png", "image/png", strings.NewReader("png-bytes"), 9)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotPath != "/upload/storage/v1/b/gcash-receipts/o" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotName != "gcash/abc.png" {
		t.Fatalf("unexpected object name %q", gotName)
	}
	if gotType != "image/png" || gotAuth != "Bearer tok" || gotBody != "png-bytes" {
		t.Fatalf("unexpected request type=%q auth=%q body=%q", gotType, gotAuth, gotBody)
	}
}

func TestBucketUploadFailureStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	client := &Client{httpClient: srv.Client(), defaultBucket: "b", apiBaseURL: srv.URL, tokenSource: staticTokenSource("tok")}
	err := client.BucketHandle("b").Upload(context.Background(), "gcash/x.jpg", "image/jpeg", strings.NewReader("x"), 1)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}

func TestBucketPublicURL(t *testing.T) {
	client := &Client{defaultBucket: "gcash-receipts", publicBaseURL: "https://cdn.example.com"}
	got := client.BucketHandle("").PublicURL("gcash/a b.jpg")
	if got != "https://cdn.example.com/gcash-receipts/gcash/a%20b.jpg" {
		t.Fatalf("unexpected public url %q", got)
	}

	bare := &Client{defaultBucket: "bucket"}
	if got := bare.BucketHandle("").PublicURL("gcash/x.png"); got != "https://storage.googleapis.com/bucket/gcash/x.png" {
		t.Fatalf("unexpected default public url %q", got)
	}
}

func TestPingChecksBucket(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/storage/v1/b/gcash-receipts/o" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	client := &Client{httpClient: srv.Client(), defaultBucket: "gcash-receipts", apiBaseURL: srv.URL, tokenSource: staticTokenSource("tok")}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestServiceAccountTokenSource(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))

	var grantType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		grantType = r.Form.Get("grant_type")
		if strings.Count(r.Form.Get("assertion"), ".") != 2 {
			http.Error(w, "bad assertion", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "sa-token", "expires_in": 3600})
	}))
	defer srv.Close()

	creds, _ := json.Marshal(map[string]string{
		"client_email": "uploader@adph.iam.gserviceaccount.com",
		"private_key":  pemKey,
		"token_uri":    srv.URL,
	})
	ts, err := newServiceAccountTokenSource(srv.Client(), string(creds))
	if err != nil {
		t.Fatalf("token source: %v", err)
	}
	token, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "sa-token" {
		t.Fatalf("unexpected token %q", token)
	}
	if grantType != "urn:ietf:params:oauth:grant-type:jwt-bearer" {
		t.Fatalf("unexpected grant type %q", grantType)
	}
}

func TestServiceAccountTokenSourceRejectsBadCredentials(t *testing.T) {
	if _, err := newServiceAccountTokenSource(http.DefaultClient, `{"client_email":""}`); err == nil {
		t.Fatal("expected error for incomplete credentials")
	}
	if _, err := newServiceAccountTokenSource(http.DefaultClient, `not-json`); err == nil {
		t.Fatal("expected error for malformed credentials")
	}
}

func TestSignAssertionVerifiesWithPublicKey(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}))
	parsed, err := parsePrivateKey(pemKey)
	if err != nil {
		t.Fatalf("parse pkcs1 key: %v", err)
	}

	now := time.Now()
	assertion, err := signAssertion("uploader@adph.iam.gserviceaccount.com", parsed, "https://oauth2.example/token", now)
	if err != nil {
		t.Fatalf("sign assertion: %v", err)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(assertion, claims, func(tok *jwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil || !token.Valid {
		t.Fatalf("assertion did not verify: %v", err)
	}
	if claims["iss"] != "uploader@adph.iam.gserviceaccount.com" || claims["scope"] != scope {
		t.Fatalf("unexpected claims %v", claims)
	}
	if aud, _ := claims.GetAudience(); len(aud) != 1 || aud[0] != "https://oauth2.example/token" {
		t.Fatalf("unexpected audience %v", aud)
	}
	if exp, _ := claims.GetExpirationTime(); exp == nil || exp.Unix() != now.Add(time.Hour).Unix() {
		t.Fatalf("unexpected expiry %v", exp)
	}

	other, _ := rsa.GenerateKey(rand.Reader, 2048)
	if _, err := jwt.Parse(assertion, func(*jwt.Token) (any, error) { return &other.PublicKey, nil }); err == nil {
		t.Fatal("expected verification failure with a different key")
	}
}

func TestParsePrivateKeyRejectsGarbage(t *testing.T) {
	if _, err := parsePrivateKey("not a pem block"); err == nil {
		t.Fatal("expected error for non-PEM key")
	}
}
