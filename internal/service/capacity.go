package service

import (
	"context"

	"github.com/voxbill/voxbill/internal/api/dto"
	"github.com/voxbill/voxbill/internal/domain/account"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

// CapacityService gates call admission against the shared concurrency
// counter of an account's capacity holder. A user under a company has no
// capacity of its own; it draws from the company's pool.
type CapacityService interface {
	// CanStartCall is a read-only admission probe. The authoritative
	// check happens inside IncrementActiveCalls.
	CanStartCall(ctx context.Context, accountID string) (bool, error)

	// IncrementActiveCalls performs admission check and increment as one
	// atomic operation on the holder's row. Returns false when the holder
	// is at capacity.
	IncrementActiveCalls(ctx context.Context, accountID string) (bool, error)

	// DecrementActiveCalls releases a channel at call teardown, clamping
	// at zero. A decrement without a prior increment is logged, not failed.
	DecrementActiveCalls(ctx context.Context, accountID string) error

	ChannelInfo(ctx context.Context, accountID string) (*dto.ChannelInfoResponse, error)
}

type capacityService struct {
	ServiceParams
}

func NewCapacityService(params ServiceParams) CapacityService {
	return &capacityService{
		ServiceParams: params,
	}
}

// resolveHolder returns the account whose counters govern admission for the
// requesting account.
func (s *capacityService) resolveHolder(ctx context.Context, accountID string) (*account.Account, error) {
	if accountID == "" {
		return nil, ierr.NewError("account_id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}

	acct, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if acct.Role == types.AccountRoleUser && acct.ParentID != nil {
		parent, err := s.AccountRepo.Get(ctx, *acct.ParentID)
		if err != nil {
			if ierr.IsNotFound(err) {
				s.Logger.Warnw("user references missing parent, treating as own capacity holder",
					"account_id", acct.ID,
					"parent_id", *acct.ParentID,
				)
				return acct, nil
			}
			return nil, err
		}
		if parent.Role == types.AccountRoleCompany {
			return parent, nil
		}
	}

	return acct, nil
}

func (s *capacityService) CanStartCall(ctx context.Context, accountID string) (bool, error) {
	holder, err := s.resolveHolder(ctx, accountID)
	if err != nil {
		return false, err
	}
	return holder.ActiveCalls < holder.MaxConcurrentCalls, nil
}

func (s *capacityService) IncrementActiveCalls(ctx context.Context, accountID string) (bool, error) {
	holder, err := s.resolveHolder(ctx, accountID)
	if err != nil {
		return false, err
	}

	admitted, err := s.AccountRepo.TryIncrementActiveCalls(ctx, holder.ID)
	if err != nil {
		return false, err
	}
	if !admitted {
		s.Logger.Debugw("call admission refused, holder at capacity",
			"account_id", accountID,
			"holder_id", holder.ID,
			"max_concurrent_calls", holder.MaxConcurrentCalls,
		)
	}
	return admitted, nil
}

func (s *capacityService) DecrementActiveCalls(ctx context.Context, accountID string) error {
	holder, err := s.resolveHolder(ctx, accountID)
	if err != nil {
		return err
	}

	decremented, err := s.AccountRepo.DecrementActiveCalls(ctx, holder.ID)
	if err != nil {
		return err
	}
	if !decremented {
		// A missing prior increment is an operational anomaly, not a
		// caller error.
		s.Logger.Warnw("active call counter already at zero on decrement",
			"account_id", accountID,
			"holder_id", holder.ID,
		)
	}
	return nil
}

func (s *capacityService) ChannelInfo(ctx context.Context, accountID string) (*dto.ChannelInfoResponse, error) {
	acct, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	holder, err := s.resolveHolder(ctx, accountID)
	if err != nil {
		return nil, err
	}

	available := holder.MaxConcurrentCalls - holder.ActiveCalls
	if available < 0 {
		available = 0
	}

	utilization := 0.0
	if holder.MaxConcurrentCalls > 0 {
		utilization = float64(holder.ActiveCalls) / float64(holder.MaxConcurrentCalls) * 100
	}

	return &dto.ChannelInfoResponse{
		AccountID:         acct.ID,
		HolderID:          holder.ID,
		HolderRole:        holder.Role,
		MaxChannels:       holder.MaxConcurrentCalls,
		ActiveCalls:       holder.ActiveCalls,
		AvailableChannels: available,
		UtilizationPct:    utilization,
		PooledCompanyUser: holder.ID != acct.ID,
	}, nil
}
