package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	mdw "pg-hostel-api/internal/transport/http/middleware"
)

type Options struct {
	MediaDir       string // 头像静态目录，空则不挂
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// NewAPIEngine 组装引擎：中间件链 + 健康检查 + /metrics + 静态媒体。
// 业务路由通过 Register/MountAllAPI 挂到 /api/v1 下。
func NewAPIEngine(l *zap.Logger, opt Options) *gin.Engine {
	if opt.MaxBodyBytes <= 0 {
		opt.MaxBodyBytes = 16 << 20
	}
	if opt.RequestTimeout <= 0 {
		opt.RequestTimeout = 10 * time.Second
	}

	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(opt.MaxBodyBytes),
		mdw.Timeout(opt.RequestTimeout),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opt.MediaDir != "" {
		r.Static("/media/profile_images", opt.MediaDir)
	}

	api := r.Group("/api/v1")
	MountAllAPI(api)

	return r
}
