package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/SakshamTolani/ProductPro/pkg/errors"
)

// isUniqueViolation reports whether err is a postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation reports whether err is a postgres foreign key
// violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23503")
}

// storeErr classifies a non-ErrNoRows database error. An error the server
// itself produced is internal; anything else (dead connection, timeout) is a
// store-level outage and must never be reported as not-found.
func storeErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return apperrors.Internal(err)
	}
	return apperrors.StoreUnavailable(err)
}
