package main

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hramlk99k/library-api/internal/config"
	docs "github.com/hramlk99k/library-api/internal/docs"
	"github.com/hramlk99k/library-api/internal/handler"
	"github.com/hramlk99k/library-api/internal/middleware"
	"github.com/hramlk99k/library-api/internal/repository"
)

type registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

func newRouter(
	cfg *config.Config,
	repo repository.BookRepository,
	logger *slog.Logger,
	reg registry,
	startTime time.Time,
) (*gin.Engine, error) {
	e := gin.New()

	if err := e.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
	}); err != nil {
		return nil, err
	}

	e.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	if cfg.MetricsEnabled {
		m, err := middleware.NewMetrics(reg)
		if err != nil {
			return nil, err
		}
		e.Use(m.Handler())
		e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	docs.SwaggerInfo.BasePath = "/api"

	healthHandler := handler.NewHealthHandler(repo, startTime, appVersion)
	healthHandler.RegisterRoutes(e)

	api := e.Group("/api")
	{
		bookHandler := handler.NewBookHandler(repo)
		bookHandler.RegisterRoutes(api)
	}

	e.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return e, nil
}
