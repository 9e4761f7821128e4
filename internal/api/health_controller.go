package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liberhite/Aplikasipengajuan/internal/database"
	"gorm.io/gorm"
)

// HealthController reports service and backend health.
type HealthController struct {
	db *gorm.DB
}

// NewHealthController creates the health controller. db may be nil when
// the memory storage driver is active.
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Check handles GET /health.
func (c *HealthController) Check(ctx *gin.Context) {
	status := "healthy"
	checks := make(map[string]string)

	if c.db != nil {
		if database.CheckHealth(c.db) {
			checks["database"] = "healthy"
		} else {
			status = "unhealthy"
			checks["database"] = "unhealthy"
		}
	} else {
		checks["database"] = "not configured"
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	ctx.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}
