package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxbill/voxbill/internal/api/dto"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/service"
)

type AccountHandler struct {
	accountService   service.AccountService
	hierarchyService service.HierarchyService
	rateService      service.RateService
	billingService   service.BillingService
	logger           *logger.Logger
}

func NewAccountHandler(
	accountService service.AccountService,
	hierarchyService service.HierarchyService,
	rateService service.RateService,
	billingService service.BillingService,
	logger *logger.Logger,
) *AccountHandler {
	return &AccountHandler{
		accountService:   accountService,
		hierarchyService: hierarchyService,
		rateService:      rateService,
		billingService:   billingService,
		logger:           logger,
	}
}

// CreateAccount godoc
// @Summary Create an account
// @Description Create a new account node in the tenant hierarchy
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountRequest true "Create account request"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		NewErrorResponse(c, ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.accountService.CreateAccount(c.Request.Context(), &req)
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetAccount godoc
// @Summary Get an account
// @Description Get an account by ID
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	resp, err := h.accountService.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateParent godoc
// @Summary Move an account under a new parent
// @Description Reparent an account after the cycle gate approves the move
// @Tags Accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body dto.UpdateParentRequest true "Update parent request"
// @Success 200 {object} dto.UpdateParentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{id}/parent [put]
func (h *AccountHandler) UpdateParent(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		NewErrorResponse(c, ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	updated, err := h.hierarchyService.Reparent(c.Request.Context(), id, req.ParentID)
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, &dto.UpdateParentResponse{
		NodeID:   id,
		ParentID: req.ParentID,
		Updated:  updated,
	})
}

// GetDescendants godoc
// @Summary List descendant account ids
// @Description List every account ID in the subtree below the given account
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.DescendantsResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{id}/descendants [get]
func (h *AccountHandler) GetDescendants(c *gin.Context) {
	id := c.Param("id")

	ids, err := h.hierarchyService.DescendantIDs(c.Request.Context(), id)
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, &dto.DescendantsResponse{
		NodeID:        id,
		DescendantIDs: ids,
	})
}

// GetRates godoc
// @Summary List the account's effective rates
// @Description List sell prices for the account's plan, falling back to the predefined default plan
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {array} dto.ConfiguredRateResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{id}/rates [get]
func (h *AccountHandler) GetRates(c *gin.Context) {
	rates, err := h.rateService.UserRates(c.Request.Context(), c.Param("id"))
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, rates)
}

// GetInvoices godoc
// @Summary List the account's invoices
// @Description List usage invoices generated for the account, newest first
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {array} dto.InvoiceResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{id}/invoices [get]
func (h *AccountHandler) GetInvoices(c *gin.Context) {
	invoices, err := h.billingService.ListInvoices(c.Request.Context(), c.Param("id"))
	if err != nil {
		NewErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, invoices)
}
