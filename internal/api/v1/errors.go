package v1

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/voxbill/voxbill/internal/errors"
)

// ErrorResponse is the standard error payload for API responses
type ErrorResponse = ierr.ErrorResponse

// NewErrorResponse writes the standard error payload with the HTTP status
// derived from the error's classification.
func NewErrorResponse(c *gin.Context, err error) {
	c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
}
