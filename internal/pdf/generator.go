package pdf

import (
	"context"

	"github.com/voxbill/voxbill/internal/domain/payment"
)

// Generator renders a receipt document for a recorded payment. The rendering
// service is an external collaborator; a rendering failure is logged by the
// caller and never rolls back the financial transaction.
type Generator interface {
	RenderReceipt(ctx context.Context, p *payment.Payment) (url string, err error)
}

// NoopGenerator is used when no rendering service is configured.
type NoopGenerator struct{}

func NewNoopGenerator() Generator {
	return &NoopGenerator{}
}

func (g *NoopGenerator) RenderReceipt(ctx context.Context, p *payment.Payment) (string, error) {
	return "", nil
}
