package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"org-service/internal/dto"
	"org-service/internal/service"
	"org-service/pkg/logger"
	"org-service/prometheus"
)

// AuthHandler exposes admin authentication over HTTP.
type AuthHandler struct {
	auth service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates an admin and returns a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if ok, msg := req.Validate(); !ok {
		log.Error("Invalid login data", zap.String("reason", msg))
		prometheus.RecordAuthError("incomplete_login")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	resp, err := h.auth.Login(c.Request().Context(), &req)
	if err != nil {
		return writeServiceError(c, log, err)
	}

	prometheus.IncreaseActiveTokens()

	log.Info("Admin logged in",
		zap.String("admin_id", resp.AdminID),
		zap.String("organization_name", resp.OrganizationName))
	return c.JSON(http.StatusOK, resp)
}

// MetricsHandler serves the Prometheus metrics endpoint.
func MetricsHandler(c echo.Context) error {
	handler := prometheus.GetPrometheusHandler()
	handler.ServeHTTP(c.Response(), c.Request())
	return nil
}
