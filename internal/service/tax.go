package service

import (
	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/api/dto"
	"github.com/voxbill/voxbill/internal/types"
)

// TaxService determines the tax breakdown for a top-up. The calculation is
// deterministic and side-effect-free so invoice totals stay reproducible.
type TaxService interface {
	Calculate(jurisdictionCode string, hasTaxRegistration bool, amount decimal.Decimal) *dto.TaxBreakdownResponse
}

type taxService struct {
	ServiceParams
}

func NewTaxService(params ServiceParams) TaxService {
	return &taxService{
		ServiceParams: params,
	}
}

// Calculate evaluates the rules in order: no jurisdiction, outside the home
// bloc, reverse charge for registered businesses, then the member rate.
func (s *taxService) Calculate(jurisdictionCode string, hasTaxRegistration bool, amount decimal.Decimal) *dto.TaxBreakdownResponse {
	result := &dto.TaxBreakdownResponse{
		JurisdictionCode: jurisdictionCode,
		Rate:             decimal.Zero,
		TaxAmount:        decimal.Zero,
		TotalAmount:      amount,
	}

	switch {
	case jurisdictionCode == "":
		result.TaxType = types.TaxTypeNoTax
		return result

	case !types.IsEUMember(jurisdictionCode):
		result.TaxType = types.TaxTypeExport
		return result

	case hasTaxRegistration:
		// B2B exemption: the tax liability shifts to the buyer.
		result.TaxType = types.TaxTypeReverseCharge
		return result
	}

	rate, listed := types.EUVATRates[jurisdictionCode]
	if !listed {
		// An unlisted bloc member defaults to 0% rather than a guessed
		// rate; surfaced in the logs as a rate-table gap.
		s.Logger.Warnw("EU member missing from VAT rate table, defaulting to 0%",
			"jurisdiction_code", jurisdictionCode,
		)
	}

	result.TaxType = types.TaxTypeVAT
	result.Rate = decimal.NewFromFloat(rate)
	result.TaxAmount = amount.Mul(result.Rate).Div(oneHundred).Round(2)
	result.TotalAmount = amount.Add(result.TaxAmount)
	return result
}
