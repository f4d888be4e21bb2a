package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NtshVrm/VYSONM2A2/internal/database"
	"github.com/NtshVrm/VYSONM2A2/internal/models"
)

// HealthHandler serves the health and probe endpoints.
type HealthHandler struct {
	postgres *database.PostgresDB
	redis    *database.RedisDB
	version  string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pg *database.PostgresDB, redis *database.RedisDB, version string) *HealthHandler {
	return &HealthHandler{
		postgres: pg,
		redis:    redis,
		version:  version,
	}
}

// Health handles GET /health with per-dependency detail. A 503 tells
// load balancers to route traffic elsewhere.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	services := make(map[string]string)
	healthy := true

	if err := h.postgres.Health(ctx); err != nil {
		services["postgres"] = "error: " + err.Error()
		healthy = false
	} else {
		services["postgres"] = "ok"
	}

	if err := h.redis.Health(ctx); err != nil {
		services["redis"] = "error: " + err.Error()
		healthy = false
	} else {
		services["redis"] = "ok"
	}

	response := models.HealthResponse{
		Version:  h.version,
		Services: services,
	}

	if healthy {
		response.Status = "healthy"
		c.JSON(http.StatusOK, response)
	} else {
		response.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

// Ready handles GET /ready. Status-only readiness probe.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.postgres.Health(ctx); err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	if err := h.redis.Health(ctx); err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.Status(http.StatusOK)
}

// Live handles GET /live. Confirms the process is running; dependency
// checks belong to readiness.
func (h *HealthHandler) Live(c *gin.Context) {
	c.Status(http.StatusOK)
}
