package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/procura-api/internal/presentation/http/dto/response"
)

// TenantHeader lets super admins pick the tenant they are acting for
const TenantHeader = "X-Tenant-ID"

// RequireTenant rejects requests that reach tenant data without a tenant
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetTenantID(c) == uuid.Nil {
			response.Forbidden(c, "Tenant context required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetTenantID returns the tenant resolved by AuthMiddleware, or uuid.Nil
func GetTenantID(c *gin.Context) uuid.UUID {
	v, exists := c.Get("tenant_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
