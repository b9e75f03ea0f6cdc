package middleware

import (
	"log/slog"
	"strings"

	"reviewdesk/internal/delivery/api/response"
	deliverycontext "reviewdesk/internal/delivery/context"
	"reviewdesk/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const tenantIDKey = "tenantID"

// AuthMiddleware authenticates the tenant behind each API call.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, logger: logger}
}

// Authenticate validates the Bearer token and stores the tenant ID on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Debug("Rejected tenant token", slog.Any("error", err))

			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		c.Set(tenantIDKey, claims.TenantID)
		c.SetRequest(c.Request().WithContext(deliverycontext.WithTenantID(c.Request().Context(), claims.TenantID)))

		return next(c)
	}
}

// GetTenantID returns the tenant set by Authenticate.
func GetTenantID(c echo.Context) (uuid.UUID, bool) {
	tenantID, ok := c.Get(tenantIDKey).(uuid.UUID)
	if !ok || tenantID == uuid.Nil {
		return uuid.Nil, false
	}

	return tenantID, true
}
