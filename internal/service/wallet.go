package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/api/dto"
	"github.com/voxbill/voxbill/internal/domain/payment"
	"github.com/voxbill/voxbill/internal/domain/wallet"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

// WalletService owns the pre-paid balance ledger: top-ups with tax and
// sequential invoice numbers, and ledger-only usage deductions.
type WalletService interface {
	// Balance lazily creates a zero-balance wallet on first access.
	Balance(ctx context.Context, accountID string) (*dto.WalletResponse, error)

	// TopUp records a confirmed payment and credits the wallet by the
	// base amount. Payment record, invoice-number allocation, and balance
	// credit succeed or fail together.
	TopUp(ctx context.Context, req *dto.TopUpRequest) (*dto.PaymentResponse, error)

	// Deduct debits the wallet for usage. Returns false without mutation
	// when the balance does not cover the amount.
	Deduct(ctx context.Context, accountID string, amount decimal.Decimal, description string) (bool, error)

	HasSufficientBalance(ctx context.Context, accountID string, amount decimal.Decimal) (bool, error)
}

type walletService struct {
	ServiceParams
	taxService TaxService
}

func NewWalletService(params ServiceParams, taxService TaxService) WalletService {
	return &walletService{
		ServiceParams: params,
		taxService:    taxService,
	}
}

// getOrCreateWallet is the idempotent get-or-create behind every balance
// operation. A create race resolves by re-reading.
func (s *walletService) getOrCreateWallet(ctx context.Context, accountID string) (*wallet.Wallet, error) {
	if accountID == "" {
		return nil, ierr.NewError("account_id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}

	w, err := s.WalletRepo.GetByAccountID(ctx, accountID)
	if err == nil {
		return w, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	if _, err := s.AccountRepo.Get(ctx, accountID); err != nil {
		return nil, err
	}

	w = &wallet.Wallet{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WALLET),
		AccountID: accountID,
		Currency:  "usd",
		Balance:   decimal.Zero,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	if err := s.WalletRepo.Create(ctx, w); err != nil {
		if ierr.IsAlreadyExists(err) {
			return s.WalletRepo.GetByAccountID(ctx, accountID)
		}
		return nil, err
	}
	return w, nil
}

func (s *walletService) Balance(ctx context.Context, accountID string) (*dto.WalletResponse, error) {
	w, err := s.getOrCreateWallet(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return dto.FromWallet(w), nil
}

func (s *walletService) TopUp(ctx context.Context, req *dto.TopUpRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acct, err := s.AccountRepo.Get(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	if _, err := s.getOrCreateWallet(ctx, req.AccountID); err != nil {
		return nil, err
	}

	tax := s.taxService.Calculate(acct.CountryCode, acct.TaxNumber != "", req.Amount)

	var p *payment.Payment
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		year := time.Now().UTC().Year()
		seq, err := s.SequenceRepo.NextValue(ctx, year)
		if err != nil {
			return err
		}

		p = &payment.Payment{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
			AccountID:     req.AccountID,
			Amount:        req.Amount,
			TaxAmount:     tax.TaxAmount,
			TotalPaid:     tax.TotalAmount,
			TaxType:       tax.TaxType,
			Method:        req.Method,
			InvoiceNumber: types.FormatInvoiceNumber(year, seq),
			ExternalRef:   req.ExternalRef,
			BaseModel:     types.GetDefaultBaseModel(ctx),
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if err := s.PaymentRepo.Create(ctx, p); err != nil {
			return err
		}

		// Tax is remitted, not banked: only the base amount becomes
		// spendable balance.
		return s.WalletRepo.CreditBalance(ctx, req.AccountID, req.Amount)
	})
	if err != nil {
		s.Logger.Errorw("top-up failed",
			"error", err,
			"account_id", req.AccountID,
			"amount", req.Amount,
		)
		return nil, err
	}

	s.Logger.Infow("wallet topped up",
		"account_id", req.AccountID,
		"amount", req.Amount,
		"tax_amount", p.TaxAmount,
		"invoice_number", p.InvoiceNumber,
	)

	// Receipt rendering is a collaborator concern; a failure here leaves
	// the committed payment standing with a missing artifact reference.
	if s.PDFGenerator != nil {
		if _, renderErr := s.PDFGenerator.RenderReceipt(ctx, p); renderErr != nil {
			s.Logger.Errorw("failed to render payment receipt",
				"error", renderErr,
				"payment_id", p.ID,
				"invoice_number", p.InvoiceNumber,
			)
		}
	}

	return dto.FromPayment(p), nil
}

func (s *walletService) Deduct(ctx context.Context, accountID string, amount decimal.Decimal, description string) (bool, error) {
	if !amount.IsPositive() {
		return false, ierr.NewError("amount must be positive").
			WithHint("Deduction amount must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	if _, err := s.getOrCreateWallet(ctx, accountID); err != nil {
		return false, err
	}

	deducted, err := s.WalletRepo.TryDebitBalance(ctx, accountID, amount)
	if err != nil {
		return false, err
	}
	if deducted {
		s.Logger.Debugw("wallet debited",
			"account_id", accountID,
			"amount", amount,
			"description", description,
		)
	}
	return deducted, nil
}

func (s *walletService) HasSufficientBalance(ctx context.Context, accountID string, amount decimal.Decimal) (bool, error) {
	if !amount.IsPositive() {
		return false, ierr.NewError("amount must be positive").
			WithHint("Amount must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	w, err := s.getOrCreateWallet(ctx, accountID)
	if err != nil {
		return false, err
	}
	return w.Balance.GreaterThanOrEqual(amount), nil
}
