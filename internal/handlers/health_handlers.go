package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"rentalhub/internal/caching"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	db       Pinger
	redisSvc caching.CacheService
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(db Pinger, redisSvc caching.CacheService) *HealthHandlers {
	return &HealthHandlers{db: db, redisSvc: redisSvc}
}

// HealthStatus represents the readiness of each dependency
type HealthStatus struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}

// LivenessCheck reports that the process is serving requests.
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Success:   true,
		Message:   "Server is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck pings Postgres and Redis; either failing yields 503.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	health := HealthStatus{
		Success:   true,
		Message:   "All systems operational",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  map[string]string{"database": "healthy", "redis": "healthy"},
	}

	if err := h.db.Ping(ctx); err != nil {
		log.Printf("WARN: readiness database ping failed: %v", err)
		health.Services["database"] = "unhealthy"
		health.Success = false
	}
	if h.redisSvc == nil {
		health.Services["redis"] = "unconfigured"
		health.Success = false
	} else if err := h.redisSvc.Ping(ctx); err != nil {
		log.Printf("WARN: readiness redis ping failed: %v", err)
		health.Services["redis"] = "unhealthy"
		health.Success = false
	}

	if !health.Success {
		health.Message = "Critical services unavailable"
		return c.JSON(http.StatusServiceUnavailable, health)
	}
	return c.JSON(http.StatusOK, health)
}
