package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestErrorHandlerRecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(RequestIDKey, "req-7"); c.Next() })
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Internal Server Error" || body.RequestID != "req-7" {
		t.Errorf("body = %+v", body)
	}
}

func TestAuthEntryFresh(t *testing.T) {
	e := AuthEntry{CachedAt: testTime}
	tests := []struct {
		name string
		at   time.Duration
		want bool
	}{
		{"just cached", 0, true},
		{"inside the window", AuthCacheTTL - time.Second, true},
		{"at the window", AuthCacheTTL, false},
		{"clock behind the entry", -time.Second, false},
	}
	for _, tt := range tests {
		if got := e.Fresh(testTime.Add(tt.at)); got != tt.want {
			t.Errorf("%s: Fresh = %v, want %v", tt.name, got, tt.want)
		}
	}
}

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
