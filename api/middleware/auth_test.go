package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgauth "github.com/stockroomhq/stockroom-backend/pkg/auth"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "stockroom-test", ExpirationMinutes: 5}
}

func mintTestToken(t *testing.T, userID uint, email string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{UserID: userID, Email: email})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without credentials")
	}))

	req := httptest.NewRequest(http.MethodPost, "/suppliers", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsMalformedToken(t *testing.T) {
	handler := Auth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodPost, "/suppliers", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthSeedsContextWithClaims(t *testing.T) {
	var gotUserID uint
	var gotEmail string
	handler := Auth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotEmail = EmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/suppliers", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, 42, "ops@example.com"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != 42 || gotEmail != "ops@example.com" {
		t.Fatalf("unexpected claims in context: %d %q", gotUserID, gotEmail)
	}
}

func TestAuthRejectionBodiesAreIdentical(t *testing.T) {
	handler := Auth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	missing := httptest.NewRequest(http.MethodPost, "/suppliers", nil)
	missingRec := httptest.NewRecorder()
	handler.ServeHTTP(missingRec, missing)

	invalid := httptest.NewRequest(http.MethodPost, "/suppliers", nil)
	invalid.Header.Set("Authorization", "Bearer not-a-jwt")
	invalidRec := httptest.NewRecorder()
	handler.ServeHTTP(invalidRec, invalid)

	if missingRec.Code != http.StatusUnauthorized || invalidRec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", missingRec.Code, invalidRec.Code)
	}
	if missingRec.Body.String() != invalidRec.Body.String() {
		t.Fatalf("401 bodies must not reveal the rejection reason:\n%s\n%s",
			missingRec.Body.String(), invalidRec.Body.String())
	}
}

func TestAuthRejectsTokenFromOtherSecret(t *testing.T) {
	otherCfg := config.JWTConfig{Secret: "other-secret", Issuer: "stockroom-test", ExpirationMinutes: 5}
	token, err := pkgauth.MintAccessToken(otherCfg, time.Now(), pkgauth.AccessTokenPayload{UserID: 1, Email: "x@example.com"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	handler := Auth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with a foreign token")
	}))

	req := httptest.NewRequest(http.MethodPost, "/suppliers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
