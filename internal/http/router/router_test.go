package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apphttp "motormarket_backend/internal/http"
	"motormarket_backend/platform/httpkit"
	"motormarket_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "router-test-secret"

type testConfig struct{}

func (testConfig) GetHTTPAddr() string        { return ":0" }
func (testConfig) GetCORSAllowAll() bool      { return false }
func (testConfig) GetCORSOrigins() []string   { return []string{"http://localhost:3000"} }
func (testConfig) GetCORSAllowCreds() bool    { return true }
func (testConfig) GetJWTAccessSecret() string { return testSecret }

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// probeModule mounts one route on each route group.
type probeModule struct{}

func (probeModule) Name() string { return "probe" }

func (probeModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	ctx.V1.GET("/probe/public", ok)
	ctx.Protected.GET("/probe/private", ok)
	ctx.Admin.GET("/probe", ok)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(health apphttp.HealthChecker) *gin.Engine {
	return New(&apphttp.App{
		Config:  testConfig{},
		Logger:  logger.Nop(),
		Health:  health,
		Modules: []apphttp.Module{probeModule{}},
	})
}

func bearer(t *testing.T, roles ...string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uuid.NewString(),
		"type":  "access",
		"roles": roles,
		"exp":   time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func TestRouteGroups(t *testing.T) {
	engine := newTestEngine(nil)

	tests := []struct {
		name       string
		path       string
		auth       string
		wantStatus int
	}{
		{name: "public anonymous", path: "/api/v1/probe/public", wantStatus: http.StatusOK},
		{name: "protected anonymous", path: "/api/v1/probe/private", wantStatus: http.StatusUnauthorized},
		{name: "protected user", path: "/api/v1/probe/private", auth: bearer(t, "user"), wantStatus: http.StatusOK},
		{name: "admin as user", path: "/api/v1/admin/probe", auth: bearer(t, "user"), wantStatus: http.StatusForbidden},
		{name: "admin as admin", path: "/api/v1/admin/probe", auth: bearer(t, httpkit.RoleAdmin), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("GET %s = %d, want %d (body %s)", tt.path, rec.Code, tt.wantStatus, rec.Body.String())
			}
			if rec.Header().Get(httpkit.HeaderRequestID) == "" {
				t.Error("missing request id header")
			}
		})
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		health     apphttp.HealthChecker
		wantStatus int
	}{
		{name: "no checker", health: nil, wantStatus: http.StatusOK},
		{name: "healthy", health: pingFunc(func(context.Context) error { return nil }), wantStatus: http.StatusOK},
		{name: "database down", health: pingFunc(func(context.Context) error { return errors.New("down") }), wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestEngine(tt.health).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("GET /api/ready = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
