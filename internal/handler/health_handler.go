package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"org-service/pkg/config"
	"org-service/pkg/database"
)

// HealthHandler reports service and backing-store health.
type HealthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db *gorm.DB, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: db, cfg: cfg}
}

// Check handles the health check endpoint
func (h *HealthHandler) Check(c echo.Context) error {
	dbStatus := "connected"
	status := "healthy"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "disconnected"
		status = "unhealthy"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":   status,
		"service":  h.cfg.App.Name,
		"version":  h.cfg.App.Version,
		"database": dbStatus,
	})
}

// Welcome handles the root endpoint
func (h *HealthHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Welcome to " + h.cfg.App.Name,
	})
}
