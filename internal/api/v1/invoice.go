package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxbill/voxbill/internal/api/dto"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/service"
)

type InvoiceHandler struct {
	billingService service.BillingService
	logger         *logger.Logger
}

func NewInvoiceHandler(billingService service.BillingService, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		billingService: billingService,
		logger:         logger,
	}
}

// GenerateInvoice godoc
// @Summary Generate a usage invoice
// @Description Bill the account's unbilled answered calls in the period. Returns 204 when nothing to bill.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.GenerateInvoiceRequest true "Generate invoice request"
// @Success 201 {object} dto.InvoiceResponse
// @Success 204 "No unbilled usage in the period"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /invoices/generate [post]
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	var req dto.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		NewErrorResponse(c, ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.billingService.GenerateInvoice(c.Request.Context(), &req)
	if err != nil {
		NewErrorResponse(c, err)
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetInvoice godoc
// @Summary Get an invoice
// @Description Get an invoice with its line items
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	resp, err := h.billingService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
