package dto

import (
	"github.com/shopspring/decimal"
)

// ResellerStatsResponse is a read-side rollup over a reseller's subtree.
// Empty subtrees produce explicit zeros, not errors.
type ResellerStatsResponse struct {
	ResellerID    string          `json:"reseller_id"`
	Companies     int             `json:"companies"`
	Users         int             `json:"users"`
	TotalChannels int             `json:"total_channels"`
	ActiveCalls   int             `json:"active_calls"`
	CallsToday    int             `json:"calls_today"`
	MinutesToday  decimal.Decimal `json:"minutes_today"`
	CostToday     decimal.Decimal `json:"cost_today"`
	TotalBalance  decimal.Decimal `json:"total_balance"`
}

// CompanyStatsResponse is a read-side rollup over a company and its users.
type CompanyStatsResponse struct {
	CompanyID    string          `json:"company_id"`
	Users        int             `json:"users"`
	MaxChannels  int             `json:"max_channels"`
	ActiveCalls  int             `json:"active_calls"`
	CallsToday   int             `json:"calls_today"`
	MinutesToday decimal.Decimal `json:"minutes_today"`
	CostToday    decimal.Decimal `json:"cost_today"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}
