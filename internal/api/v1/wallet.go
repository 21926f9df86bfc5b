package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxbill/voxbill/internal/api/dto"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/service"
)

type WalletHandler struct {
	walletService service.WalletService
	logger        *logger.Logger
}

func NewWalletHandler(walletService service.WalletService, logger *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		logger:        logger,
	}
}

// GetBalance godoc
// @Summary Get wallet balance
// @Description Get the account's wallet, creating a zero-balance wallet on first access
// @Tags Wallet
// @Produce json
// @Param account_id path string true "Account ID"
// @Success 200 {object} dto.WalletResponse
// @Failure 404 {object} ErrorResponse
// @Router /wallets/{account_id}/balance [get]
func (h *WalletHandler) GetBalance(c *gin.Context) {
	resp, err := h.walletService.Balance(c.Request.Context(), c.Param("account_id"))
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// TopUp godoc
// @Summary Top up a wallet
// @Description Record a confirmed payment with tax and a sequential invoice number, crediting the base amount
// @Tags Wallet
// @Accept json
// @Produce json
// @Param account_id path string true "Account ID"
// @Param request body dto.TopUpRequest true "Top-up request"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /wallets/{account_id}/topup [post]
func (h *WalletHandler) TopUp(c *gin.Context) {
	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		NewErrorResponse(c, ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}
	req.AccountID = c.Param("account_id")

	resp, err := h.walletService.TopUp(c.Request.Context(), &req)
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Deduct godoc
// @Summary Deduct usage from a wallet
// @Description Debit the wallet for usage. Insufficient funds returns deducted=false with 200.
// @Tags Wallet
// @Accept json
// @Produce json
// @Param account_id path string true "Account ID"
// @Param request body dto.DeductRequest true "Deduct request"
// @Success 200 {object} dto.DeductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /wallets/{account_id}/deduct [post]
func (h *WalletHandler) Deduct(c *gin.Context) {
	accountID := c.Param("account_id")

	var req dto.DeductRequest
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

	deducted, err := h.walletService.Deduct(c.Request.Context(), accountID, req.Amount, req.Description)
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, &dto.DeductResponse{
		AccountID: accountID,
		Deducted:  deducted,
	})
}
