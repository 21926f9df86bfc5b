package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/voxbill/voxbill/internal/testutil"
	"github.com/voxbill/voxbill/internal/types"
)

type TaxServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TaxService
}

func TestTaxService(t *testing.T) {
	suite.Run(t, new(TaxServiceSuite))
}

func (s *TaxServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTaxService(ServiceParams{
		Logger: s.GetLogger(),
		Config: s.GetConfig(),
	})
}

func (s *TaxServiceSuite) TestNoJurisdiction() {
	result := s.service.Calculate("", false, decimal.NewFromInt(100))
	s.Equal(types.TaxTypeNoTax, result.TaxType)
	s.True(result.TaxAmount.IsZero())
	s.True(result.TotalAmount.Equal(decimal.NewFromInt(100)))
}

func (s *TaxServiceSuite) TestNonEUIsExport() {
	result := s.service.Calculate("US", false, decimal.NewFromInt(100))
	s.Equal(types.TaxTypeExport, result.TaxType)
	s.True(result.TaxAmount.IsZero())
	s.True(result.TotalAmount.Equal(decimal.NewFromInt(100)))
}

func (s *TaxServiceSuite) TestEUBusinessReverseCharge() {
	result := s.service.Calculate("DE", true, decimal.NewFromInt(100))
	s.Equal(types.TaxTypeReverseCharge, result.TaxType)
	s.True(result.TaxAmount.IsZero())
	s.True(result.TotalAmount.Equal(decimal.NewFromInt(100)))
}

func (s *TaxServiceSuite) TestEUConsumerVAT() {
	result := s.service.Calculate("DE", false, decimal.NewFromInt(100))
	s.Equal(types.TaxTypeVAT, result.TaxType)
	s.True(result.Rate.Equal(decimal.NewFromInt(19)))
	s.True(result.TaxAmount.Equal(decimal.NewFromInt(19)))
	s.True(result.TotalAmount.Equal(decimal.NewFromInt(119)))
}

func (s *TaxServiceSuite) TestVATRoundsToCents() {
	// 21% of 10.99 is 2.3079, rounded to 2.31.
	result := s.service.Calculate("NL", false, decimal.RequireFromString("10.99"))
	s.Equal(types.TaxTypeVAT, result.TaxType)
	s.True(result.TaxAmount.Equal(decimal.RequireFromString("2.31")), "got %s", result.TaxAmount)
	s.True(result.TotalAmount.Equal(decimal.RequireFromString("13.30")), "got %s", result.TotalAmount)
}

func (s *TaxServiceSuite) TestRegistrationIgnoredOutsideEU() {
	result := s.service.Calculate("GB", true, decimal.NewFromInt(50))
	s.Equal(types.TaxTypeExport, result.TaxType)
	s.True(result.TaxAmount.IsZero())
}
