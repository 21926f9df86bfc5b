package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/domain/account"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
	"github.com/voxbill/voxbill/internal/validator"
)

// CreateAccountRequest represents the request to create an account node
type CreateAccountRequest struct {
	Name               string            `json:"name" validate:"required"`
	Role               types.AccountRole `json:"role" validate:"required"`
	ParentID           *string           `json:"parent_id,omitempty"`
	MaxConcurrentCalls int               `json:"max_concurrent_calls" validate:"gte=0"`
	BillingType        types.BillingType `json:"billing_type,omitempty"`
	ChannelRate        decimal.Decimal   `json:"channel_rate,omitempty"`
	PlanID             *string           `json:"plan_id,omitempty"`
	CountryCode        string            `json:"country_code,omitempty"`
	TaxNumber          string            `json:"tax_number,omitempty"`
}

func (r *CreateAccountRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.Role.Validate() {
		return ierr.NewError("invalid account role").
			WithHintf("Role must be one of user, company, reseller, got %s", r.Role).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *CreateAccountRequest) ToAccount(ctx context.Context) *account.Account {
	billingType := r.BillingType
	if billingType == "" {
		billingType = types.BillingTypePrepaid
	}
	return &account.Account{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ACCOUNT),
		Name:               r.Name,
		Role:               r.Role,
		ParentID:           r.ParentID,
		MaxConcurrentCalls: r.MaxConcurrentCalls,
		BillingType:        billingType,
		ChannelRate:        r.ChannelRate,
		PlanID:             r.PlanID,
		CountryCode:        r.CountryCode,
		TaxNumber:          r.TaxNumber,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
}

// UpdateParentRequest represents a reparent mutation. The hierarchy service's
// cycle gate runs before the assignment is applied.
type UpdateParentRequest struct {
	ParentID *string `json:"parent_id"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Role               types.AccountRole `json:"role"`
	ParentID           *string           `json:"parent_id,omitempty"`
	ResellerID         *string           `json:"reseller_id,omitempty"`
	MaxConcurrentCalls int               `json:"max_concurrent_calls"`
	ActiveCalls        int               `json:"active_calls"`
	BillingType        types.BillingType `json:"billing_type"`
	ChannelRate        decimal.Decimal   `json:"channel_rate"`
	PlanID             *string           `json:"plan_id,omitempty"`
	CountryCode        string            `json:"country_code,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func FromAccount(a *account.Account) *AccountResponse {
	return &AccountResponse{
		ID:                 a.ID,
		Name:               a.Name,
		Role:               a.Role,
		ParentID:           a.ParentID,
		ResellerID:         a.ResellerID,
		MaxConcurrentCalls: a.MaxConcurrentCalls,
		ActiveCalls:        a.ActiveCalls,
		BillingType:        a.BillingType,
		ChannelRate:        a.ChannelRate,
		PlanID:             a.PlanID,
		CountryCode:        a.CountryCode,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// UpdateParentResponse reports the reparent outcome. A cycle-gate refusal is
// an expected result, not an error.
type UpdateParentResponse struct {
	NodeID   string  `json:"node_id"`
	ParentID *string `json:"parent_id,omitempty"`
	Updated  bool    `json:"updated"`
}

// DescendantsResponse lists the ids under a node, the node itself excluded
type DescendantsResponse struct {
	NodeID        string   `json:"node_id"`
	DescendantIDs []string `json:"descendant_ids"`
}
