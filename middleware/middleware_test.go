package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"concierge/models"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeUsers map[string]models.User

func (f fakeUsers) CurrentUser(_ context.Context, id string) (*models.User, error) {
	u, ok := f[id]
	if !ok || !u.IsActive {
		return nil, errors.New("no such user")
	}
	return &u, nil
}

type fakeGate map[models.Role]bool

func (g fakeGate) CanAccessRoute(role models.Role, _ string) bool { return g[role] }

func newRouter(users fakeUsers, gate fakeGate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(users), RouteGuardMiddleware(gate))
	r.GET("/api/ping", func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.String(http.StatusOK, u.ID)
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	users := fakeUsers{
		"usr-1": {ID: "usr-1", Role: models.RoleAdmin, IsActive: true},
		"usr-9": {ID: "usr-9", Role: models.RoleManager, IsActive: false},
	}
	r := newRouter(users, fakeGate{models.RoleAdmin: true, models.RoleManager: true})

	valid, _ := utils.GenerateToken("usr-1", "a@example.com", time.Hour)
	inactive, _ := utils.GenerateToken("usr-9", "b@example.com", time.Hour)
	expired, _ := utils.GenerateToken("usr-1", "a@example.com", -time.Hour)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"inactive user", "Bearer " + inactive, http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusOK && w.Body.String() != "usr-1" {
				t.Errorf("current user = %q", w.Body.String())
			}
		})
	}
}

func TestRouteGuardMiddleware(t *testing.T) {
	users := fakeUsers{"usr-4": {ID: "usr-4", Role: models.RoleManager, IsActive: true}}
	r := newRouter(users, fakeGate{models.RoleAdmin: true})

	token, _ := utils.GenerateToken("usr-4", "m@example.com", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other client was limited: %d", w.Code)
	}
}

func TestTrustCached(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	active := models.User{ID: "usr-1", Role: models.RoleAdmin, IsActive: true}
	inactive := active
	inactive.IsActive = false

	tests := []struct {
		name  string
		entry *utils.AuthEntry
		want  bool
	}{
		{"fresh active entry", &utils.AuthEntry{User: active, CachedAt: now.Add(-10 * time.Second)}, true},
		{"entry at the recheck limit", &utils.AuthEntry{User: active, CachedAt: now.Add(-utils.AuthCacheTTL)}, false},
		{"deactivated user", &utils.AuthEntry{User: inactive, CachedAt: now}, false},
		{"different subject", &utils.AuthEntry{User: models.User{ID: "usr-2", IsActive: true}, CachedAt: now}, false},
		{"cached in the future", &utils.AuthEntry{User: active, CachedAt: now.Add(time.Minute)}, false},
		{"no entry", nil, false},
	}
	for _, tt := range tests {
		if got := trustCached(tt.entry, "usr-1", now); got != tt.want {
			t.Errorf("%s: trustCached = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClientKeyIgnoresForwardingFromUntrustedPeers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		t.Fatalf("SetTrustedProxies: %v", err)
	}
	var got string
	r.GET("/", func(c *gin.Context) { got = clientKey(c) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if got != "192.0.2.10" {
		t.Errorf("clientKey = %q, want the peer address", got)
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	var id string
	var hasLogger bool
	r.GET("/", func(c *gin.Context) {
		id = c.GetString(utils.RequestIDKey)
		_, hasLogger = c.Get(utils.LoggerKey)
		utils.JSONError(c, http.StatusTeapot, "short and stout", "")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if id != "req-42" || w.Header().Get(RequestIDHeader) != "req-42" || !hasLogger {
		t.Errorf("id = %q, header = %q, logger set = %v", id, w.Header().Get(RequestIDHeader), hasLogger)
	}
	if !strings.Contains(w.Body.String(), `"requestId":"req-42"`) {
		t.Errorf("error body lacks request id: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("no request id generated")
	}
}
