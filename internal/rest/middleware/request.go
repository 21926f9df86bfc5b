package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/voxbill/voxbill/internal/types"
)

func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = types.GenerateUUID()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header("X-Request-ID", requestID)
	c.Next()
}
