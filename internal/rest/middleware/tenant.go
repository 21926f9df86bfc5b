package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/voxbill/voxbill/internal/types"
)

// TenantMiddleware resolves the acting tenant and user from request headers,
// falling back to the platform defaults for unauthenticated callers.
func TenantMiddleware(c *gin.Context) {
	tenantID := c.GetHeader("X-Tenant-ID")
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		userID = types.DefaultUserID
	}

	ctx := c.Request.Context()
	ctx = context.WithValue(ctx, types.CtxTenantID, tenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, userID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
