package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/voxbill/voxbill/internal/domain/payment"
	"github.com/voxbill/voxbill/internal/pdf"
)

var _ pdf.Generator = (*MockPDFGenerator)(nil)

// MockPDFGenerator records rendered receipts and can be told to fail, so
// tests can assert that rendering failures never roll back payments.
type MockPDFGenerator struct {
	mu       sync.Mutex
	Rendered []string
	Err      error
}

func NewMockPDFGenerator() *MockPDFGenerator {
	return &MockPDFGenerator{}
}

func (g *MockPDFGenerator) RenderReceipt(ctx context.Context, p *payment.Payment) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Err != nil {
		return "", g.Err
	}
	g.Rendered = append(g.Rendered, p.ID)
	return fmt.Sprintf("https://receipts.local/%s.pdf", p.InvoiceNumber), nil
}
