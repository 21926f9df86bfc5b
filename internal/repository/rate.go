package repository

import (
	"context"
	"database/sql"

	"github.com/voxbill/voxbill/internal/domain/rate"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/postgres"
	"github.com/voxbill/voxbill/internal/types"
)

type rateRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewRateRepository(db *postgres.DB, logger *logger.Logger) rate.Repository {
	return &rateRepository{db: db, logger: logger}
}

const rateColumns = `id, code, name, buy_price,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *rateRepository) Create(ctx context.Context, entry *rate.Rate) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO rates (`+rateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.Code, entry.Name, entry.BuyPrice,
		entry.TenantID, entry.Status, entry.CreatedAt, entry.UpdatedAt,
		entry.CreatedBy, entry.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("A rate with code %s already exists", entry.Code).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create rate").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *rateRepository) Get(ctx context.Context, id string) (*rate.Rate, error) {
	q := r.db.GetQuerier(ctx)
	var entry rate.Rate
	err := q.GetContext(ctx, &entry, `
		SELECT `+rateColumns+` FROM rates
		WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("rate not found").
			WithHintf("Rate with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get rate").
			Mark(ierr.ErrDatabase)
	}
	return &entry, nil
}

func (r *rateRepository) List(ctx context.Context) ([]*rate.Rate, error) {
	q := r.db.GetQuerier(ctx)
	rates := make([]*rate.Rate, 0)
	err := q.SelectContext(ctx, &rates, `
		SELECT `+rateColumns+` FROM rates
		WHERE tenant_id = $1 AND status = $2
		ORDER BY name`,
		types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list rates").
			Mark(ierr.ErrDatabase)
	}
	return rates, nil
}
