package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"org-service/internal/dto"
	"org-service/internal/middleware"
	"org-service/internal/service"
	"org-service/pkg/logger"
	"org-service/prometheus"
)

// OrgHandler exposes the organization lifecycle over HTTP.
type OrgHandler struct {
	orgs service.OrganizationService
}

// NewOrgHandler creates an OrgHandler.
func NewOrgHandler(orgs service.OrganizationService) *OrgHandler {
	return &OrgHandler{orgs: orgs}
}

// Create handles organization registration
func (h *OrgHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("create")

	var req dto.CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization creation request", zap.Error(err))
		prometheus.RecordOrgError("validation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if ok, msg := req.Validate(); !ok {
		log.Error("Invalid organization data", zap.String("reason", msg))
		prometheus.RecordOrgError("validation")
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": msg})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	resp, err := h.orgs.Create(c.Request().Context(), &req)
	if err != nil {
		return writeServiceError(c, log, err)
	}

	log.Info("Organization created",
		zap.String("organization_name", resp.OrganizationName),
		zap.String("id", resp.ID))
	return c.JSON(http.StatusCreated, resp)
}

// Get handles organization lookup by name
func (h *OrgHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("get")

	name := c.Param("organization_name")

	defer prometheus.TrackDBOperation("query")(time.Now())

	resp, err := h.orgs.Get(c.Request().Context(), name)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update handles organization changes, including rename with partition
// migration. The target organization comes from the caller's token.
func (h *OrgHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("update")

	adminID, ok := c.Get(middleware.AdminIDKey).(string)
	if !ok || adminID == "" {
		log.Error("Failed to get admin ID from context")
		prometheus.RecordAuthError("missing_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	currentName, _ := c.Get(middleware.OrganizationNameKey).(string)

	var req dto.UpdateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization update request", zap.Error(err))
		prometheus.RecordOrgError("validation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if ok, msg := req.Validate(); !ok {
		log.Error("Invalid organization update data", zap.String("reason", msg))
		prometheus.RecordOrgError("validation")
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": msg})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	resp, err := h.orgs.Update(c.Request().Context(), currentName, &req, adminID)
	if err != nil {
		return writeServiceError(c, log, err)
	}

	log.Info("Organization updated",
		zap.String("organization_name", resp.OrganizationName),
		zap.String("id", resp.ID))
	return c.JSON(http.StatusOK, resp)
}

// Delete handles organization teardown. A tenant may delete only itself.
func (h *OrgHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrgOperation("delete")

	callerOrgID, ok := c.Get(middleware.OrganizationIDKey).(string)
	if !ok || callerOrgID == "" {
		log.Error("Failed to get organization ID from context")
		prometheus.RecordAuthError("missing_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req dto.DeleteOrganizationRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization delete request", zap.Error(err))
		prometheus.RecordOrgError("validation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.OrganizationName == "" {
		// Fall back to the caller's own organization when no body is sent.
		name, _ := c.Get(middleware.OrganizationNameKey).(string)
		req.OrganizationName = name
	}

	if ok, msg := req.Validate(); !ok {
		log.Error("Invalid organization delete data", zap.String("reason", msg))
		prometheus.RecordOrgError("validation")
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": msg})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := h.orgs.Delete(c.Request().Context(), req.OrganizationName, callerOrgID); err != nil {
		return writeServiceError(c, log, err)
	}

	log.Info("Organization deleted", zap.String("organization_name", req.OrganizationName))
	return c.NoContent(http.StatusNoContent)
}

// writeServiceError maps service errors to HTTP responses. Unexpected errors
// are logged in full and surfaced as a generic message.
func writeServiceError(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrOrganizationExists),
		errors.Is(err, service.ErrEmailRegistered):
		prometheus.RecordOrgError("conflict")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrOrganizationNotFound):
		prometheus.RecordOrgError("not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotOrganizationAdmin):
		prometheus.RecordOrgError("forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		prometheus.RecordAuthError("invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	default:
		log.Error("Internal error", zap.Error(err))
		prometheus.RecordOrgError("internal")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
