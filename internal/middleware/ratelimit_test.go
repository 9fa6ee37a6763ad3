package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newLimitedRouter(rate int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rl := NewRateLimiter(rate, time.Minute)
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterBlocksAfterBudget(t *testing.T) {
	r := newLimitedRouter(2)

	if code := doRequest(r, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first request: got %d", code)
	}
	if code := doRequest(r, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("second request: got %d", code)
	}
	if code := doRequest(r, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("third request: got %d, want 429", code)
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	r := newLimitedRouter(1)

	if code := doRequest(r, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first client: got %d", code)
	}
	if code := doRequest(r, "10.0.0.2"); code != http.StatusOK {
		t.Fatalf("second client should have its own budget: got %d", code)
	}
	if code := doRequest(r, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("first client over budget: got %d, want 429", code)
	}
}
