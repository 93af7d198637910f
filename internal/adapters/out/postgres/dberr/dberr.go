// Package dberr translates driver errors into the errs taxonomy.
package dberr

import (
	stderrors "errors"

	"orderhub/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// PostgreSQL error codes the adapters react to.
const (
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeUniqueViolation      = "23505"
)

// Wrap annotates err with op. Serialization failures and deadlocks become a
// TransientError so callers may retry; everything else is returned wrapped.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	if IsTransient(err) {
		return errs.NewTransientError(errors.Wrap(err, op))
	}
	return errors.Wrap(err, op)
}

// IsTransient reports whether err is a serialization failure or a deadlock.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !stderrors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == CodeSerializationFailure || pgErr.Code == CodeDeadlockDetected
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation
}
