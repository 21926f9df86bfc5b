package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/service"
)

type TaxHandler struct {
	taxService service.TaxService
	logger     *logger.Logger
}

func NewTaxHandler(taxService service.TaxService, logger *logger.Logger) *TaxHandler {
	return &TaxHandler{
		taxService: taxService,
		logger:     logger,
	}
}

// PreviewTax godoc
// @Summary Preview the tax breakdown for an amount
// @Description Evaluate the jurisdiction rules for a hypothetical top-up without recording anything
// @Tags Tax
// @Produce json
// @Param country_code query string false "ISO country code of the payer"
// @Param tax_registered query bool false "Payer holds a tax registration number"
// @Param amount query string true "Base amount"
// @Success 200 {object} dto.TaxBreakdownResponse
// @Failure 400 {object} ErrorResponse
// @Router /tax/preview [get]
func (h *TaxHandler) PreviewTax(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		NewErrorResponse(c, ierr.WithError(err).
			WithHint("Amount must be a decimal number").
			Mark(ierr.ErrValidation))
		return
	}
	if !amount.IsPositive() {
		NewErrorResponse(c, ierr.NewError("amount must be positive").
			WithHint("Amount must be greater than zero").
			Mark(ierr.ErrValidation))
		return
	}

	registered := c.Query("tax_registered") == "true"
	breakdown := h.taxService.Calculate(c.Query("country_code"), registered, amount)

	c.JSON(http.StatusOK, breakdown)
}
