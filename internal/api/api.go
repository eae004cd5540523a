// Package api serves the directory over a JSON REST surface under /api.
package api

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/groupdir/internal/directory"
	"github.com/mmynk/groupdir/internal/metrics"
	"github.com/mmynk/groupdir/internal/middleware"
	"github.com/mmynk/groupdir/internal/ratelimit"
)

// Options configures the REST engine.
type Options struct {
	Metrics *metrics.Metrics

	// Limiter and SubmitLimit throttle POST /api/groups per client IP.
	// A nil Limiter or a zero SubmitLimit disables throttling.
	Limiter     ratelimit.Limiter
	SubmitLimit int

	// Ping reports storage health on /healthz. Nil means always healthy.
	Ping func(ctx context.Context) error

	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For
	// header is honored when resolving the client IP. Empty trusts none and
	// keys clients by the connection's remote address.
	TrustedProxies []string
}

// NewRouter builds the gin engine with every REST route registered.
func NewRouter(dir *directory.Service, opts Options) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	RegisterRoutes(r, dir, opts)
	return r, nil
}

// RegisterRoutes registers the /api routes and /healthz on r.
func RegisterRoutes(r *gin.Engine, dir *directory.Service, opts Options) {
	if r == nil || dir == nil {
		return
	}

	r.GET("/healthz", healthz(opts.Ping))

	h := NewGroupHandler(dir)
	api := r.Group("/api")

	groups := api.Group("/groups")
	groups.GET("", h.List)
	groups.GET("/featured", h.Featured)
	groups.GET("/recent", h.Recent)
	groups.GET("/:id", h.Get)
	if opts.Limiter != nil && opts.SubmitLimit > 0 {
		groups.POST("", middleware.RateLimit(opts.Limiter, opts.SubmitLimit, opts.Metrics), h.Create)
	} else {
		groups.POST("", h.Create)
	}

	api.GET("/categories", h.Categories)
	api.GET("/categories/:category", h.ByCategory)
	api.GET("/countries", h.Countries)
	api.GET("/countries/:country", h.ByCountry)
	api.GET("/search", h.Search)
	api.POST("/fetch-og", h.Preview)
}
