package handler

import (
	"time"

	"bulletin/internal/logging"
	"bulletin/internal/metrics"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterConfig carries the cross-cutting pieces the router wires in.
type RouterConfig struct {
	Logger         zerolog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	AdminAuth      gin.HandlerFunc // nil leaves admin delete open
	Sentry         bool
}

// NewRouter builds the gin engine serving the board API under /api.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	if cfg.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(logging.RequestID())
	r.Use(logging.Requests(cfg.Logger, "/healthz", "/metrics"))
	r.Use(cfg.Metrics.Middleware())
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/kirtans", h.ListKirtans)
		api.POST("/kirtans", h.CreateKirtan)

		api.GET("/bus", h.ListBus)
		api.POST("/bus", h.CreateBus)

		api.GET("/sathi", h.ListSathi)
		api.POST("/sathi", h.CreateSathi)

		api.POST("/contact", h.CreateContact)

		admin := api.Group("/admin")
		if cfg.AdminAuth != nil {
			admin.Use(cfg.AdminAuth)
		}
		admin.DELETE("/delete/:table/:id", h.AdminDelete)

		api.POST("/visit", h.LogVisit)
		api.GET("/stats", h.Stats)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", logging.RequestIDHeader},
		MaxAge:       24 * time.Hour,
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return cors.New(c)
		}
	}
	c.AllowOrigins = origins
	return cors.New(c)
}
