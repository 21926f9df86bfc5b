package service

import (
	"context"

	"github.com/voxbill/voxbill/internal/api/dto"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

// AccountService manages account nodes. Parent assignments at creation go
// through the same checks as reparenting, minus the cycle walk a fresh node
// cannot need.
type AccountService interface {
	CreateAccount(ctx context.Context, req *dto.CreateAccountRequest) (*dto.AccountResponse, error)
	GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error)
}

type accountService struct {
	ServiceParams
	hierarchyService HierarchyService
}

func NewAccountService(params ServiceParams, hierarchyService HierarchyService) AccountService {
	return &accountService{
		ServiceParams:    params,
		hierarchyService: hierarchyService,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, req *dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acct := req.ToAccount(ctx)
	if err := acct.Validate(); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.AccountRepo.Get(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Role == types.AccountRoleUser {
			return nil, ierr.NewError("users cannot have child accounts").
				WithHintf("Account %s has role user and cannot be a parent", parent.ID).
				Mark(ierr.ErrInvalidOperation)
		}
		if parent.Role == types.AccountRoleReseller {
			acct.ResellerID = &parent.ID
		} else if parent.ResellerID != nil {
			acct.ResellerID = parent.ResellerID
		}
	}

	if req.PlanID != nil {
		if _, err := s.PlanRepo.Get(ctx, *req.PlanID); err != nil {
			return nil, err
		}
	}

	if err := s.AccountRepo.Create(ctx, acct); err != nil {
		s.Logger.Errorw("failed to create account", "error", err, "name", acct.Name)
		return nil, err
	}

	s.Logger.Infow("account created",
		"account_id", acct.ID,
		"role", acct.Role,
		"parent_id", acct.ParentID,
	)

	return dto.FromAccount(acct), nil
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error) {
	if id == "" {
		return nil, ierr.NewError("account id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}

	acct, err := s.AccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromAccount(acct), nil
}
