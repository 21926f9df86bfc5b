package service

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"github.com/voxbill/voxbill/internal/api/dto"
	"github.com/voxbill/voxbill/internal/domain/account"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

// HierarchyService owns the tenant tree: ancestry and descendant queries,
// the reparent cycle gate, and read-side stats rollups.
type HierarchyService interface {
	DescendantIDs(ctx context.Context, nodeID string) ([]string, error)

	// CanReparent is the sole cycle-prevention gate. Every parent
	// assignment in the system must pass through it.
	CanReparent(ctx context.Context, nodeID string, proposedParentID *string) (bool, error)

	// Reparent applies a gated parent assignment; the refusal is reported
	// as false without mutation.
	Reparent(ctx context.Context, nodeID string, proposedParentID *string) (bool, error)

	// RootResellerID resolves the reseller at the root of the node's
	// subtree, nil when the chain ends without one.
	RootResellerID(ctx context.Context, nodeID string) (*string, error)

	ResellerStats(ctx context.Context, resellerID string) (*dto.ResellerStatsResponse, error)
	CompanyStats(ctx context.Context, companyID string) (*dto.CompanyStatsResponse, error)
}

type hierarchyService struct {
	ServiceParams
	statsCache *gocache.Cache
}

func NewHierarchyService(params ServiceParams) HierarchyService {
	ttl := 30 * time.Second
	if params.Config != nil && params.Config.Billing.StatsCacheTTLSeconds > 0 {
		ttl = time.Duration(params.Config.Billing.StatsCacheTTLSeconds) * time.Second
	}
	return &hierarchyService{
		ServiceParams: params,
		statsCache:    gocache.New(ttl, 2*ttl),
	}
}

// descendants walks the subtree breadth-first with a visited set and a depth
// bound, so it terminates even on data a missed gate left cyclic.
func (s *hierarchyService) descendants(ctx context.Context, nodeID string) ([]*account.Account, error) {
	if _, err := s.AccountRepo.Get(ctx, nodeID); err != nil {
		return nil, err
	}

	visited := map[string]bool{nodeID: true}
	result := make([]*account.Account, 0)
	frontier := []string{nodeID}

	for depth := 0; depth < types.MaxHierarchyDepth && len(frontier) > 0; depth++ {
		next := make([]string, 0)
		for _, id := range frontier {
			children, err := s.AccountRepo.ListByParent(ctx, id)
			if err != nil {
				return nil, err
			}
			for _, child := range children {
				if visited[child.ID] {
					s.Logger.Errorw("hierarchy cycle detected during traversal",
						"node_id", nodeID,
						"repeated_id", child.ID,
					)
					continue
				}
				visited[child.ID] = true
				result = append(result, child)
				next = append(next, child.ID)
			}
		}
		frontier = next
	}

	if len(frontier) > 0 {
		s.Logger.Warnw("hierarchy traversal hit depth bound",
			"node_id", nodeID,
			"max_depth", types.MaxHierarchyDepth,
		)
	}

	return result, nil
}

func (s *hierarchyService) DescendantIDs(ctx context.Context, nodeID string) ([]string, error) {
	if nodeID == "" {
		return nil, ierr.NewError("node_id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}

	nodes, err := s.descendants(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	return lo.Map(nodes, func(a *account.Account, _ int) string {
		return a.ID
	}), nil
}

func (s *hierarchyService) CanReparent(ctx context.Context, nodeID string, proposedParentID *string) (bool, error) {
	if nodeID == "" {
		return false, ierr.NewError("node_id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}

	if proposedParentID == nil {
		// Detaching to the top level can never create a cycle.
		return true, nil
	}

	if *proposedParentID == nodeID {
		return false, nil
	}

	descendantIDs, err := s.DescendantIDs(ctx, nodeID)
	if err != nil {
		return false, err
	}
	if lo.Contains(descendantIDs, *proposedParentID) {
		return false, nil
	}

	if _, err := s.AccountRepo.Get(ctx, *proposedParentID); err != nil {
		return false, err
	}

	return true, nil
}

func (s *hierarchyService) Reparent(ctx context.Context, nodeID string, proposedParentID *string) (bool, error) {
	ok, err := s.CanReparent(ctx, nodeID, proposedParentID)
	if err != nil || !ok {
		return ok, err
	}

	if err := s.AccountRepo.UpdateParent(ctx, nodeID, proposedParentID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *hierarchyService) RootResellerID(ctx context.Context, nodeID string) (*string, error) {
	node, err := s.AccountRepo.Get(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	if node.Role == types.AccountRoleReseller {
		return &node.ID, nil
	}
	if node.ResellerID != nil {
		return node.ResellerID, nil
	}

	current := node
	for hops := 0; hops < types.MaxHierarchyDepth; hops++ {
		if current.ParentID == nil {
			return nil, nil
		}
		parent, err := s.AccountRepo.Get(ctx, *current.ParentID)
		if err != nil {
			if ierr.IsNotFound(err) {
				s.Logger.Warnw("parent chain references missing account",
					"node_id", nodeID,
					"missing_id", *current.ParentID,
				)
				return nil, nil
			}
			return nil, err
		}
		if parent.Role == types.AccountRoleReseller {
			return &parent.ID, nil
		}
		current = parent
	}

	return nil, nil
}

func (s *hierarchyService) ResellerStats(ctx context.Context, resellerID string) (*dto.ResellerStatsResponse, error) {
	cacheKey := fmt.Sprintf("reseller_stats:%s", resellerID)
	if cached, found := s.statsCache.Get(cacheKey); found {
		return cached.(*dto.ResellerStatsResponse), nil
	}

	node, err := s.AccountRepo.Get(ctx, resellerID)
	if err != nil {
		return nil, err
	}
	if node.Role != types.AccountRoleReseller {
		return nil, ierr.NewError("account is not a reseller").
			WithHintf("Stats requested for role %s", node.Role).
			Mark(ierr.ErrInvalidOperation)
	}

	subtree, err := s.descendants(ctx, resellerID)
	if err != nil {
		return nil, err
	}

	stats := &dto.ResellerStatsResponse{ResellerID: resellerID}
	ids := make([]string, 0, len(subtree))
	for _, a := range subtree {
		ids = append(ids, a.ID)
		switch a.Role {
		case types.AccountRoleCompany:
			stats.Companies++
		case types.AccountRoleUser:
			stats.Users++
		}
		stats.TotalChannels += a.MaxConcurrentCalls
		stats.ActiveCalls += a.ActiveCalls
	}

	usage, err := s.CallRepo.UsageTotalsSince(ctx, ids, startOfDay(time.Now().UTC()))
	if err != nil {
		return nil, err
	}
	stats.CallsToday = usage.Calls
	stats.MinutesToday = usage.Minutes
	stats.CostToday = usage.Cost

	balance, err := s.WalletRepo.TotalBalance(ctx, ids)
	if err != nil {
		return nil, err
	}
	stats.TotalBalance = balance

	s.statsCache.SetDefault(cacheKey, stats)
	return stats, nil
}

func (s *hierarchyService) CompanyStats(ctx context.Context, companyID string) (*dto.CompanyStatsResponse, error) {
	cacheKey := fmt.Sprintf("company_stats:%s", companyID)
	if cached, found := s.statsCache.Get(cacheKey); found {
		return cached.(*dto.CompanyStatsResponse), nil
	}

	node, err := s.AccountRepo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if node.Role != types.AccountRoleCompany {
		return nil, ierr.NewError("account is not a company").
			WithHintf("Stats requested for role %s", node.Role).
			Mark(ierr.ErrInvalidOperation)
	}

	subtree, err := s.descendants(ctx, companyID)
	if err != nil {
		return nil, err
	}

	stats := &dto.CompanyStatsResponse{
		CompanyID: companyID,
		// Users pool on the company's counters, so capacity comes from
		// the company row alone.
		MaxChannels: node.MaxConcurrentCalls,
		ActiveCalls: node.ActiveCalls,
	}

	ids := []string{companyID}
	for _, a := range subtree {
		ids = append(ids, a.ID)
		if a.Role == types.AccountRoleUser {
			stats.Users++
		}
	}

	usage, err := s.CallRepo.UsageTotalsSince(ctx, ids, startOfDay(time.Now().UTC()))
	if err != nil {
		return nil, err
	}
	stats.CallsToday = usage.Calls
	stats.MinutesToday = usage.Minutes
	stats.CostToday = usage.Cost

	balance, err := s.WalletRepo.TotalBalance(ctx, ids)
	if err != nil {
		return nil, err
	}
	stats.TotalBalance = balance

	s.statsCache.SetDefault(cacheKey, stats)
	return stats, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
