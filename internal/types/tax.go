package types

// TaxType classifies a tax determination for a top-up.
type TaxType string

const (
	TaxTypeNoTax         TaxType = "No Tax"
	TaxTypeExport        TaxType = "Export"
	TaxTypeReverseCharge TaxType = "Reverse Charge"
	TaxTypeVAT           TaxType = "VAT"
)

// EUVATRates maps EU member jurisdiction codes to their standard VAT rate.
// Members missing from this table are treated as 0% by the calculator, which
// logs the gap instead of guessing a rate.
var EUVATRates = map[string]float64{
	"AT": 20.0,
	"BE": 21.0,
	"BG": 20.0,
	"HR": 25.0,
	"CY": 19.0,
	"CZ": 21.0,
	"DK": 25.0,
	"EE": 22.0,
	"FI": 25.5,
	"FR": 20.0,
	"DE": 19.0,
	"GR": 24.0,
	"HU": 27.0,
	"IE": 23.0,
	"IT": 22.0,
	"LV": 21.0,
	"LT": 21.0,
	"LU": 17.0,
	"MT": 18.0,
	"NL": 21.0,
	"PL": 23.0,
	"PT": 23.0,
	"RO": 19.0,
	"SK": 23.0,
	"SI": 22.0,
	"ES": 21.0,
	"SE": 25.0,
}

// EUMembers is the home trade bloc membership set used by the tax rules.
var EUMembers = map[string]bool{
	"AT": true, "BE": true, "BG": true, "HR": true, "CY": true, "CZ": true,
	"DK": true, "EE": true, "FI": true, "FR": true, "DE": true, "GR": true,
	"HU": true, "IE": true, "IT": true, "LV": true, "LT": true, "LU": true,
	"MT": true, "NL": true, "PL": true, "PT": true, "RO": true, "SK": true,
	"SI": true, "ES": true, "SE": true,
}

// IsEUMember reports whether the jurisdiction code belongs to the home bloc.
func IsEUMember(code string) bool {
	return EUMembers[code]
}
