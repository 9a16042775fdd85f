package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/snackhub/api/internal/auth"
	"github.com/snackhub/api/internal/enum"
	"github.com/snackhub/api/internal/middleware"
)

const testSecret = "test-secret"

func protectedHandler(t *testing.T, wantRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			t.Error("claims missing from context")
		} else if wantRole != "" && claims.Role != wantRole {
			t.Errorf("role: got %s, want %s", claims.Role, wantRole)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_ValidToken(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, uuid.New(), enum.RoleCashier)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	h := middleware.Authenticate(testSecret)(protectedHandler(t, enum.RoleCashier))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	h := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticate_BadFormat(t *testing.T) {
	h := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Token abc123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	token, err := auth.GenerateToken("other-secret", uuid.New(), enum.RoleCashier)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	h := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		tokenRole  string
		allowed    []string
		wantStatus int
	}{
		{"admin allowed", enum.RoleAdmin, []string{enum.RoleAdmin}, http.StatusOK},
		{"manager allowed in pair", enum.RoleManager, []string{enum.RoleAdmin, enum.RoleManager}, http.StatusOK},
		{"cashier forbidden", enum.RoleCashier, []string{enum.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := auth.GenerateToken(testSecret, uuid.New(), tt.tokenRole)
			if err != nil {
				t.Fatalf("generate token: %v", err)
			}

			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			h := middleware.Authenticate(testSecret)(middleware.RequireRole(tt.allowed...)(inner))

			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRole_NoClaims(t *testing.T) {
	h := middleware.RequireRole(enum.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
