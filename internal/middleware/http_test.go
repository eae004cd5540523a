package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/groupdir/internal/metrics"
	"github.com/mmynk/groupdir/internal/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := serve(r, "")
	generated := w.Header().Get(RequestIDHeader)
	if generated == "" || w.Body.String() != generated {
		t.Errorf("generated ID %q not exposed to handler (body %q)", generated, w.Body.String())
	}

	w = serve(r, "caller-id")
	if got := w.Header().Get(RequestIDHeader); got != "caller-id" {
		t.Errorf("expected caller ID to be reused, got %q", got)
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Time) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("backend down")
}

func TestRateLimit(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(RateLimit(ratelimit.NewMemoryLimiter(time.Minute), 2, m))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		if w := serve(r, ""); w.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want 204", i+1, w.Code)
		}
	}

	w := serve(r, "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" || w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("unexpected headers: %v", w.Header())
	}
	if got := testutil.ToFloat64(m.SubmissionsDenied); got != 1 {
		t.Errorf("denied counter = %v, want 1", got)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(failingLimiter{}, 1, nil))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		if w := serve(r, ""); w.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want 204", i+1, w.Code)
		}
	}
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, "")
	serve(r, "")
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/ping", http.MethodGet, "200")); got != 2 {
		t.Errorf("request counter = %v, want 2", got)
	}
}
