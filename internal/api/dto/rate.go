package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/domain/rate"
	"github.com/voxbill/voxbill/internal/types"
	"github.com/voxbill/voxbill/internal/validator"
)

// CreateRateRequest represents the request to add a cost catalog entry
type CreateRateRequest struct {
	Code     string          `json:"code" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	BuyPrice decimal.Decimal `json:"buy_price"`
}

func (r *CreateRateRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateRateRequest) ToRate(ctx context.Context) *rate.Rate {
	return &rate.Rate{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RATE),
		Code:      r.Code,
		Name:      r.Name,
		BuyPrice:  r.BuyPrice,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// RateResponse represents a cost catalog entry in API responses
type RateResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	BuyPrice  decimal.Decimal `json:"buy_price"`
	CreatedAt time.Time       `json:"created_at"`
}

func FromRate(r *rate.Rate) *RateResponse {
	return &RateResponse{
		ID:        r.ID,
		Code:      r.Code,
		Name:      r.Name,
		BuyPrice:  r.BuyPrice,
		CreatedAt: r.CreatedAt,
	}
}

// ConfiguredRateResponse joins a catalog entry with the sell price, profit
// and margin a pricing plan derives from it.
type ConfiguredRateResponse struct {
	RateID    string          `json:"rate_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	BuyPrice  decimal.Decimal `json:"buy_price"`
	SellPrice decimal.Decimal `json:"sell_price"`
	Profit    decimal.Decimal `json:"profit"`
	MarginPct decimal.Decimal `json:"margin_pct"`
}
