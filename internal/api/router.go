package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"docintel/internal/config"
	"docintel/pkg/circuitbreaker"
	"docintel/pkg/logger"
	"docintel/pkg/ratelimiter"
)

// SetupRouter configures and returns the gin engine. The rate limiter and
// circuit breaker are attached only when enabled in the configuration.
func SetupRouter(h *Handler, mw config.MiddlewareConfig, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))

	if mw.RateLimiter.Enabled {
		limiter := ratelimiter.NewTokenBucket(mw.RateLimiter.Rate, mw.RateLimiter.Capacity)
		r.Use(RateLimit(limiter))
	}

	if mw.CircuitBreaker.Enabled {
		timeout, err := time.ParseDuration(mw.CircuitBreaker.Timeout)
		if err != nil {
			timeout = 30 * time.Second
		}
		breaker := circuitbreaker.New(mw.CircuitBreaker.FailureThreshold, mw.CircuitBreaker.SuccessThreshold, timeout)
		r.Use(CircuitBreak(breaker))
	}

	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)
	r.POST("/upload", h.Upload)
	r.POST("/query", h.Query)
	r.GET("/documents", h.ListDocuments)
	r.GET("/analyze/:document_id", h.Analyze)
	r.DELETE("/documents/:document_id", h.Delete)

	return r
}
