package types

// PaymentMethod is the channel a top-up was made through. The gateway
// protocol itself lives outside this service; we only record the method.
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodOffline      PaymentMethod = "offline"
)

func (m PaymentMethod) Validate() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodOffline:
		return true
	}
	return false
}
