package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liberhite/Aplikasipengajuan/internal/config"
	"github.com/liberhite/Aplikasipengajuan/internal/metrics"
	"gorm.io/gorm"
)

// SetupRoutes builds the gin engine with the shared middleware stack and
// all routes bound to the given controllers.
func SetupRoutes(
	cfg *config.Config,
	db *gorm.DB,
	pengajuanController *PengajuanController,
) *gin.Engine {
	if config.IsProduction(cfg) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	// A nomor proses contains a slash (PR-001/2025); clients send it
	// percent-encoded and the router must match on the raw path.
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(gin.Recovery())

	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(SecurityHeadersMiddleware())
	router.Use(CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
	router.Use(ErrorHandlerMiddleware())

	healthController := NewHealthController(db)
	router.GET("/health", healthController.Check)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		pengajuan := v1.Group("/pengajuan")
		{
			pengajuan.POST("", pengajuanController.Submit)
			pengajuan.GET("/next-number", pengajuanController.NextNumber)
			pengajuan.POST("/:nomor/reassign", pengajuanController.Reassign)
		}

		v1.GET("/handlers", pengajuanController.Handlers)
		v1.GET("/dashboard", pengajuanController.Dashboard)
	}

	router.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "route not found", "the requested route does not exist")
	})

	return router
}
