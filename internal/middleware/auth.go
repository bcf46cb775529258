package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"org-service/pkg/jwtutil"
	"org-service/pkg/logger"
	"org-service/prometheus"
)

// Context keys populated by Auth for downstream handlers.
const (
	AdminIDKey          = "admin_id"
	OrganizationIDKey   = "organization_id"
	OrganizationNameKey = "organization_name"
)

// Auth returns a middleware that validates the bearer token from the
// Authorization header and stores the authorization context (admin id,
// organization id, organization name) in the echo context. Rejections carry
// a WWW-Authenticate challenge.
func Auth(jwt *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Error("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return unauthorized(c, "missing authorization token")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Error("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return unauthorized(c, "invalid authorization format, expected Bearer token")
			}

			claims, err := jwt.ValidateToken(parts[1])
			if err != nil {
				log.Error("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return unauthorized(c, "invalid or expired token")
			}

			c.Set(AdminIDKey, claims.AdminID)
			c.Set(OrganizationIDKey, claims.OrganizationID)
			c.Set(OrganizationNameKey, claims.OrganizationName)

			return next(c)
		}
	}
}

func unauthorized(c echo.Context, message string) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": message})
}
