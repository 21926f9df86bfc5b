package repository

import (
	"database/sql"

	"github.com/lib/pq"
	ierr "github.com/voxbill/voxbill/internal/errors"
)

// requireRow converts a zero-row update into a not-found error.
func requireRow(res sql.Result, entity, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to read update result").
			Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		return ierr.NewError(entity + " not found").
			WithHintf("No %s with ID %s was found", entity, id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// isUniqueViolation reports whether err is a postgres unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if ierr.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
