package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

var startTime = time.Now()

// HealthHandler provides the health endpoint.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// GetHealth responds with service and database status.
// GET /v1/health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := http.StatusOK
	health := "healthy"
	dbStatus := "connected"
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		health = "degraded"
		dbStatus = "disconnected"
	}

	c.JSON(status, gin.H{
		"status":   health,
		"uptime":   int(time.Since(startTime).Seconds()),
		"database": dbStatus,
	})
}
