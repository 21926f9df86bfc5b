package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxbill/voxbill/internal/api/dto"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/service"
)

type RateHandler struct {
	rateService service.RateService
	logger      *logger.Logger
}

func NewRateHandler(rateService service.RateService, logger *logger.Logger) *RateHandler {
	return &RateHandler{
		rateService: rateService,
		logger:      logger,
	}
}

// CreateRate godoc
// @Summary Create a wholesale rate
// @Description Add a destination prefix and buy price to the rate catalog
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body dto.CreateRateRequest true "Create rate request"
// @Success 201 {object} dto.RateResponse
// @Failure 400 {object} ErrorResponse
// @Router /rates [post]
func (h *RateHandler) CreateRate(c *gin.Context) {
	var req dto.CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		NewErrorResponse(c, ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.rateService.CreateRate(c.Request.Context(), &req)
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// CreatePlan godoc
// @Summary Create a pricing plan
// @Description Create a markup plan applied on top of wholesale rates
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body dto.CreatePlanRequest true "Create plan request"
// @Success 201 {object} dto.PlanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /plans [post]
func (h *RateHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		NewErrorResponse(c, ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.rateService.CreatePlan(c.Request.Context(), &req)
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetPlanRates godoc
// @Summary List a plan's configured rates
// @Description Sell prices, profit, and margin for every catalog entry under the plan
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {array} dto.ConfiguredRateResponse
// @Failure 404 {object} ErrorResponse
// @Router /plans/{id}/rates [get]
func (h *RateHandler) GetPlanRates(c *gin.Context) {
	rates, err := h.rateService.ConfiguredRates(c.Request.Context(), c.Param("id"))
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, rates)
}
