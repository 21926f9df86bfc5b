package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxbill/voxbill/internal/api/dto"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/service"
)

type CapacityHandler struct {
	capacityService service.CapacityService
	logger          *logger.Logger
}

func NewCapacityHandler(capacityService service.CapacityService, logger *logger.Logger) *CapacityHandler {
	return &CapacityHandler{
		capacityService: capacityService,
		logger:          logger,
	}
}

// AdmitCall godoc
// @Summary Admit a call
// @Description Reserve a channel on the account's capacity holder. A refusal returns admitted=false with 200.
// @Tags Capacity
// @Accept json
// @Produce json
// @Param request body dto.CallAdmissionRequest true "Call admission request"
// @Success 200 {object} dto.CallAdmissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /calls/admit [post]
func (h *CapacityHandler) AdmitCall(c *gin.Context) {
	var req dto.CallAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		NewErrorResponse(c, ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		NewErrorResponse(c, err)
		return
	}

	admitted, err := h.capacityService.IncrementActiveCalls(c.Request.Context(), req.AccountID)
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, &dto.CallAdmissionResponse{
		AccountID: req.AccountID,
		Admitted:  admitted,
	})
}

// ReleaseCall godoc
// @Summary Release a call
// @Description Release a previously reserved channel at call teardown
// @Tags Capacity
// @Accept json
// @Produce json
// @Param request body dto.CallAdmissionRequest true "Call release request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /calls/release [post]
func (h *CapacityHandler) ReleaseCall(c *gin.Context) {
	var req dto.CallAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		NewErrorResponse(c, ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		NewErrorResponse(c, err)
		return
	}

	if err := h.capacityService.DecrementActiveCalls(c.Request.Context(), req.AccountID); err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "released"})
}

// GetChannelInfo godoc
// @Summary Get channel pool info
// @Description Capacity holder counters and utilization as seen from the account
// @Tags Capacity
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.ChannelInfoResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{id}/channel-info [get]
func (h *CapacityHandler) GetChannelInfo(c *gin.Context) {
	info, err := h.capacityService.ChannelInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
