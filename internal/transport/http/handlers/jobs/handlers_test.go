package jobshandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"kpitrack/internal/domain/auth"
	"kpitrack/internal/transport/http/middleware"
)

type denyAllPermStore struct{}

func (denyAllPermStore) HasPermission(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestOverdueScanTriggerRequiresSystemAdmin(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", RoleID: "r1", RoleName: auth.RoleManager}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Auth(secret))
	NewHandler(nil, denyAllPermStore{}).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/admin/jobs/overdue-scan", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without the system admin permission, got %d", rec.Code)
	}
}

func TestOverdueScanTriggerRequiresAuth(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.Auth("test-secret"))
	NewHandler(nil, denyAllPermStore{}).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/admin/jobs/overdue-scan", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}
