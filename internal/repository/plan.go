package repository

import (
	"context"
	"database/sql"

	"github.com/voxbill/voxbill/internal/domain/plan"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/postgres"
	"github.com/voxbill/voxbill/internal/types"
)

type planRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger) plan.Repository {
	return &planRepository{db: db, logger: logger}
}

const planColumns = `id, name, plan_type, percentage, fixed_amount, min_markup,
	max_markup, precision, billing_increment, is_predefined, is_active,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO plans (`+planColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		p.ID, p.Name, p.PlanType, p.Percentage, p.FixedAmount, p.MinMarkup,
		p.MaxMarkup, p.Precision, p.BillingIncrement, p.IsPredefined, p.IsActive,
		p.TenantID, p.Status, p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("A plan named %s already exists", p.Name).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create plan").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	q := r.db.GetQuerier(ctx)
	var p plan.Plan
	err := q.GetContext(ctx, &p, `
		SELECT `+planColumns+` FROM plans
		WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("plan not found").
			WithHintf("Plan with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get plan").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *planRepository) GetByName(ctx context.Context, name string) (*plan.Plan, error) {
	q := r.db.GetQuerier(ctx)
	var p plan.Plan
	err := q.GetContext(ctx, &p, `
		SELECT `+planColumns+` FROM plans
		WHERE name = $1 AND tenant_id = $2 AND status = $3`,
		name, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("plan not found").
			WithHintf("Plan named %s was not found", name).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get plan by name").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *planRepository) GetPredefinedDefault(ctx context.Context) (*plan.Plan, error) {
	q := r.db.GetQuerier(ctx)
	var p plan.Plan
	err := q.GetContext(ctx, &p, `
		SELECT `+planColumns+` FROM plans
		WHERE is_predefined = TRUE AND is_active = TRUE
		  AND tenant_id = $1 AND status = $2
		ORDER BY created_at
		LIMIT 1`,
		types.GetTenantID(ctx), types.StatusPublished,
	)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("predefined default plan not found").
			WithHint("The platform's 0%-markup default plan is not seeded").
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get predefined plan").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *planRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	q := r.db.GetQuerier(ctx)
	plans := make([]*plan.Plan, 0)
	err := q.SelectContext(ctx, &plans, `
		SELECT `+planColumns+` FROM plans
		WHERE tenant_id = $1 AND status = $2
		ORDER BY name`,
		types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list plans").
			Mark(ierr.ErrDatabase)
	}
	return plans, nil
}
