package server

import (
	"log/slog"

	"github.com/PharmInc/media-gateway/internal/auth"
	"github.com/PharmInc/media-gateway/internal/avatar"
	"github.com/PharmInc/media-gateway/internal/config"
	"github.com/PharmInc/media-gateway/internal/entity"
	"github.com/PharmInc/media-gateway/internal/logging"
	"github.com/PharmInc/media-gateway/internal/media"
	"github.com/PharmInc/media-gateway/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config         config.Config
	Logger         *slog.Logger
	ObjectStore    *minio.Client
	MediaService   *media.Service
	AvatarPipeline *avatar.Pipeline
	TokenValidator *auth.Validator
	EntityCaches   *entity.Caches
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if deps.Logger != nil {
		router.Use(logging.Middleware(deps.Logger))
	}

	metrics.InitMetrics()
	router.Use(metrics.Middleware())
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	registerHealthRoutes(router, deps)

	if deps.MediaService != nil {
		requireAuth := auth.RequireServiceToken(deps.TokenValidator)
		media.RegisterRoutes(router, deps.MediaService, requireAuth)
	}
	if deps.AvatarPipeline != nil {
		avatar.RegisterRoutes(router, deps.AvatarPipeline)
	}
	if deps.EntityCaches != nil {
		entity.RegisterRoutes(router, deps.EntityCaches)
	}

	return router
}
