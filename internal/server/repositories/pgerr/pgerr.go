// Package pgerr classifies PostgreSQL errors returned through pgx.
package pgerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeInvalidTextValue    = "22P02"
	codeForeignKeyViolation = "23503"
)

func code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports a duplicate key.
func IsUniqueViolation(err error) bool { return code(err) == codeUniqueViolation }

// IsInvalidInput reports a value the column type could not parse, such as a
// malformed UUID.
func IsInvalidInput(err error) bool { return code(err) == codeInvalidTextValue }

// IsForeignKeyViolation reports a reference to a missing row.
func IsForeignKeyViolation(err error) bool { return code(err) == codeForeignKeyViolation }
