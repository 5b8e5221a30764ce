package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret = "unit-test-secret"
	testIssuer = "https://auth.example.com/v1"
)

func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func adminProtected() http.Handler {
	a := NewAdminAuthenticator(testSecret, testIssuer)
	return a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := AdminFromContext(r.Context()); !ok {
			http.Error(w, "no claims in context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func callWithToken(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/devices", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminMiddlewareAcceptsSignedToken(t *testing.T) {
	token := mintToken(t, testSecret, jwt.MapClaims{
		"sub":  "admin-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	if rec := callWithToken(adminProtected(), token); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminMiddlewareFallsBackToIssuerCheck(t *testing.T) {
	// signed with a key we do not hold, but minted by the trusted issuer
	token := mintToken(t, "some-other-key", jwt.MapClaims{
		"sub": "admin-1",
		"iss": testIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if rec := callWithToken(adminProtected(), token); rec.Code != http.StatusOK {
		t.Errorf("issuer rung should accept, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminMiddlewareRejectsWrongIssuer(t *testing.T) {
	token := mintToken(t, "some-other-key", jwt.MapClaims{
		"sub": "admin-1",
		"iss": "https://evil.example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if rec := callWithToken(adminProtected(), token); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAdminMiddlewareRejectsExpiredToken(t *testing.T) {
	token := mintToken(t, "some-other-key", jwt.MapClaims{
		"sub": "admin-1",
		"iss": testIssuer,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	if rec := callWithToken(adminProtected(), token); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAdminMiddlewareRejectsTokenWithoutExpiry(t *testing.T) {
	token := mintToken(t, "some-other-key", jwt.MapClaims{
		"sub": "admin-1",
		"iss": testIssuer,
	})

	if rec := callWithToken(adminProtected(), token); rec.Code != http.StatusUnauthorized {
		t.Errorf("tokens without expiry must be rejected, got %d", rec.Code)
	}
}

func TestAdminMiddlewareGatesOnRole(t *testing.T) {
	token := mintToken(t, testSecret, jwt.MapClaims{
		"sub":  "viewer-1",
		"role": "viewer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	if rec := callWithToken(adminProtected(), token); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin role, got %d", rec.Code)
	}
}

func TestAdminMiddlewareRequiresBearerToken(t *testing.T) {
	if rec := callWithToken(adminProtected(), ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestClaimsDefaultRoleIsAdmin(t *testing.T) {
	claims := claimsFromMap(jwt.MapClaims{"sub": "admin-1"})
	if claims.Role != "admin" {
		t.Errorf("tokens without a role claim default to admin, got %s", claims.Role)
	}

	claims = claimsFromMap(jwt.MapClaims{"sub": "u1", "user_role": "viewer"})
	if claims.Role != "viewer" {
		t.Errorf("user_role claim should be honored, got %s", claims.Role)
	}
}
