package delivery

import (
	"time"

	"fastbulk/internal/delivery/middleware"
	"fastbulk/pkg/logger"
	"fastbulk/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	RequestTimeout     time.Duration
	RateLimitPerSecond int
	RateLimitBurst     int
}

type HTTPRouter struct {
	handlers *HTTPHandlers
	logger   *logger.Logger
	metrics  *metrics.Metrics
	opts     RouterOptions
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics, opts RouterOptions) *HTTPRouter {
	return &HTTPRouter{
		handlers: handlers,
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.Timeout(r.opts.RequestTimeout))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}

	router.Use(cors.New(config))

	// Health endpoint
	router.GET("/health", r.handlers.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Analysis endpoints
		analysis := v1.Group("/analysis")
		{
			analysis.POST("",
				middleware.RateLimit(float64(r.opts.RateLimitPerSecond), r.opts.RateLimitBurst),
				r.handlers.UploadAnalysis)
			analysis.GET("/:id", r.handlers.GetAnalysis)
			analysis.POST("/:id/suggestions", r.handlers.GenerateSuggestions)
		}

		// Export endpoints
		export := v1.Group("/export")
		{
			export.POST("/download", r.handlers.ExportDownload)
			export.POST("/jobs", r.handlers.CreateExportJob)
			export.GET("/jobs", r.handlers.ListExportJobs)
			export.GET("/jobs/:id/download", r.handlers.DownloadExportJob)
		}
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	return router
}
