package modules

import (
	"context"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/news-portal-api/internal/container"
	"github.com/oksasatya/news-portal-api/internal/interface/middleware"
	"github.com/oksasatya/news-portal-api/pkg/response"
)

// DebugModule exposes expvar, prometheus metrics and a health check.
type DebugModule struct {
	Metrics bool
	DB      *pgxpool.Pool
	Redis   *redis.Client
}

func NewDebugModule(metrics bool, db *pgxpool.Pool, rdb *redis.Client) *DebugModule {
	return &DebugModule{Metrics: metrics, DB: db, Redis: rdb}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.health)
	if !m.Metrics {
		return
	}
	// rate-limited per IP; internal scrapers bypass
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.Scoped("debug", middleware.KeyByIP()), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	rg.GET("/metrics", rl, gin.WrapH(promhttp.Handler()))
}

func (m *DebugModule) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true
	if m.DB != nil {
		if err := m.DB.Ping(ctx); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	}
	if m.Redis != nil {
		if err := m.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}
	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", checks)
		return
	}
	response.Success(c, http.StatusOK, checks, "ok", nil)
}
