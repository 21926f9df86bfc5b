package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/api/dto"
	"github.com/voxbill/voxbill/internal/domain/call"
	"github.com/voxbill/voxbill/internal/domain/invoice"
	"github.com/voxbill/voxbill/internal/domain/rate"
	"github.com/voxbill/voxbill/internal/types"
)

// BillingService aggregates unbilled usage records into periodic invoices,
// resolving destination names by longest-prefix match against the catalog.
type BillingService interface {
	// GenerateInvoice bills the account's unbilled answered calls inside
	// the period. Returns (nil, nil) when there is nothing to bill, which
	// makes a re-run for a fully billed period a safe no-op.
	GenerateInvoice(ctx context.Context, req *dto.GenerateInvoiceRequest) (*dto.InvoiceResponse, error)

	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, accountID string) ([]*dto.InvoiceResponse, error)
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{
		ServiceParams: params,
	}
}

type lineGroup struct {
	minutes decimal.Decimal
	cost    decimal.Decimal
}

func (s *billingService) GenerateInvoice(ctx context.Context, req *dto.GenerateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.AccountRepo.Get(ctx, req.AccountID); err != nil {
		return nil, err
	}

	catalog, err := s.RateRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	// Longest code first, so the first prefix hit wins.
	sort.SliceStable(catalog, func(i, j int) bool {
		return len(catalog[i].Code) > len(catalog[j].Code)
	})

	var inv *invoice.Invoice
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		// The select claims the rows, so a concurrent run for the same
		// account and period waits and then finds nothing left to bill.
		calls, err := s.CallRepo.ListUnbilledAnswered(ctx, req.AccountID, req.PeriodStart, req.PeriodEnd)
		if err != nil {
			return err
		}
		if len(calls) == 0 {
			return nil
		}

		groups := make(map[string]*lineGroup)
		for _, c := range calls {
			name := resolveDestination(catalog, c.Dst)
			g, ok := groups[name]
			if !ok {
				g = &lineGroup{minutes: decimal.Zero, cost: decimal.Zero}
				groups[name] = g
			}
			g.minutes = g.minutes.Add(c.Minutes())
			g.cost = g.cost.Add(c.Cost)
		}

		now := time.Now().UTC()
		inv = &invoice.Invoice{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
			AccountID:     req.AccountID,
			PeriodStart:   req.PeriodStart,
			PeriodEnd:     req.PeriodEnd,
			Total:         decimal.Zero,
			InvoiceStatus: types.InvoiceStatusUnpaid,
			DueDate:       now.AddDate(0, 0, s.invoiceDueDays()),
			BaseModel:     types.GetDefaultBaseModel(ctx),
		}

		names := lo.Keys(groups)
		sort.Strings(names)
		for _, name := range names {
			g := groups[name]
			quantity := g.minutes.Round(5)
			total := g.cost.Round(5)
			unitPrice := decimal.Zero
			if !quantity.IsZero() {
				unitPrice = total.Div(quantity).Round(5)
			}
			inv.LineItems = append(inv.LineItems, &invoice.LineItem{
				ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
				InvoiceID:   inv.ID,
				Description: name,
				Quantity:    quantity,
				UnitPrice:   unitPrice,
				Total:       total,
				BaseModel:   types.GetDefaultBaseModel(ctx),
			})
			inv.Total = inv.Total.Add(total)
		}

		if err := s.InvoiceRepo.CreateWithLineItems(ctx, inv); err != nil {
			return err
		}

		ids := lo.Map(calls, func(c *call.Call, _ int) string {
			return c.ID
		})
		return s.CallRepo.MarkBilled(ctx, ids)
	})
	if err != nil {
		s.Logger.Errorw("invoice generation failed",
			"error", err,
			"account_id", req.AccountID,
			"period_start", req.PeriodStart,
			"period_end", req.PeriodEnd,
		)
		return nil, err
	}

	if inv == nil {
		s.Logger.Infow("no unbilled usage in period, skipping invoice",
			"account_id", req.AccountID,
			"period_start", req.PeriodStart,
			"period_end", req.PeriodEnd,
		)
		return nil, nil
	}

	s.Logger.Infow("invoice generated",
		"invoice_id", inv.ID,
		"account_id", req.AccountID,
		"line_items", len(inv.LineItems),
		"total", inv.Total,
	)

	return dto.FromInvoice(inv), nil
}

func (s *billingService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromInvoice(inv), nil
}

func (s *billingService) ListInvoices(ctx context.Context, accountID string) ([]*dto.InvoiceResponse, error) {
	invoices, err := s.InvoiceRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
		return dto.FromInvoice(inv)
	}), nil
}

func (s *billingService) invoiceDueDays() int {
	if s.Config != nil && s.Config.Billing.InvoiceDueDays > 0 {
		return s.Config.Billing.InvoiceDueDays
	}
	return 30
}

// resolveDestination finds the longest catalog code that is a prefix of the
// dialed number's digits. The catalog must already be sorted longest-first.
func resolveDestination(catalog []*rate.Rate, dst string) string {
	digits := rate.DigitsOnly(dst)
	for _, r := range catalog {
		if len(r.Code) <= len(digits) && digits[:len(r.Code)] == r.Code {
			return r.Name
		}
	}

	prefix := digits
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return fmt.Sprintf("International (+%s...)", prefix)
}
