package dto

import (
	"github.com/voxbill/voxbill/internal/types"
	"github.com/voxbill/voxbill/internal/validator"
)

// CallAdmissionRequest asks whether the account may start a call, and on
// success reserves a channel on its capacity holder.
type CallAdmissionRequest struct {
	AccountID string `json:"account_id" validate:"required"`
}

func (r *CallAdmissionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// CallAdmissionResponse reports the admission outcome. A refusal is an
// expected result, not an error.
type CallAdmissionResponse struct {
	AccountID string `json:"account_id"`
	Admitted  bool   `json:"admitted"`
}

// ChannelInfoResponse describes the capacity holder's counters as seen from
// the requesting account.
type ChannelInfoResponse struct {
	AccountID         string            `json:"account_id"`
	HolderID          string            `json:"holder_id"`
	HolderRole        types.AccountRole `json:"holder_role"`
	MaxChannels       int               `json:"max_channels"`
	ActiveCalls       int               `json:"active_calls"`
	AvailableChannels int               `json:"available_channels"`
	UtilizationPct    float64           `json:"utilization_pct"`
	PooledCompanyUser bool              `json:"pooled_company_user"`
}
