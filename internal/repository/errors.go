package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repository translates.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func pgCode(err error) string {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return ""
}

// IsDuplicate reports a unique constraint violation (email, plate number, payment reference).
func IsDuplicate(err error) bool { return pgCode(err) == codeUniqueViolation }

// IsForeignKey reports a reference to a missing profile, truck or trip.
func IsForeignKey(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// IsCheckViolation reports a value outside a column's CHECK list, e.g. an unknown status.
func IsCheckViolation(err error) bool { return pgCode(err) == codeCheckViolation }

// IsNotFound reports an empty single-row result.
func IsNotFound(err error) bool { return errors.Is(err, pgx.ErrNoRows) }
