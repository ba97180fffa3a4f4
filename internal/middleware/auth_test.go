package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"ninescapeland/internal/domain/models"
	"ninescapeland/internal/httputil"
)

type stubVerifier struct {
	claims *models.AdminClaims
	err    error
}

func (v *stubVerifier) VerifyToken(token string) (*models.AdminClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func (v *stubVerifier) Close() error { return nil }

func TestAuthRejectsMissingToken(t *testing.T) {
	mw := Auth(&stubVerifier{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a token")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"bare bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/gallery", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw(next).ServeHTTP(rec, r)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	mw := Auth(&stubVerifier{err: errors.New("signature mismatch")})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run with an invalid token")
	})

	r := httptest.NewRequest(http.MethodGet, "/api/gallery", nil)
	r.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthPassesUserIDToHandler(t *testing.T) {
	claims := &models.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
	}
	mw := Auth(&stubVerifier{claims: claims})

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httputil.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/gallery", nil)
	r.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "user-42" {
		t.Errorf("user id = %q, want user-42", gotUserID)
	}
}

func TestAuthSkipsHealthCheck(t *testing.T) {
	mw := Auth(&stubVerifier{err: errors.New("should not be consulted")})

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, r)

	if !called {
		t.Error("health check must bypass authentication")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
