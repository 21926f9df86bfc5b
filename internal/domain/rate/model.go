package rate

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

// Rate is a wholesale cost catalog entry identified by a destination prefix.
// Edits apply prospectively; records billed against an entry keep the cost
// computed at call time.
type Rate struct {
	ID       string          `db:"id" json:"id"`
	Code     string          `db:"code" json:"code"`
	Name     string          `db:"name" json:"name"`
	BuyPrice decimal.Decimal `db:"buy_price" json:"buy_price"`

	types.BaseModel
}

func (r *Rate) TableName() string {
	return "rates"
}

func (r *Rate) Validate() error {
	if r.Code == "" {
		return ierr.NewError("rate code is required").
			WithHint("Destination code is required").
			Mark(ierr.ErrValidation)
	}
	for _, c := range r.Code {
		if !unicode.IsDigit(c) {
			return ierr.NewError("rate code must be numeric").
				WithHintf("Destination code must contain only digits, got %s", r.Code).
				Mark(ierr.ErrValidation)
		}
	}
	if r.Name == "" {
		return ierr.NewError("rate name is required").
			WithHint("Destination name is required").
			Mark(ierr.ErrValidation)
	}
	if r.BuyPrice.IsNegative() {
		return ierr.NewError("buy price cannot be negative").
			WithHint("Buy price must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DigitsOnly strips every non-digit character from a dialed number so prefix
// matching sees the same form the catalog codes use.
func DigitsOnly(number string) string {
	var b strings.Builder
	for _, c := range number {
		if unicode.IsDigit(c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}
