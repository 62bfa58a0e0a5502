package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Errors names the domain errors a repository translates driver errors into.
// A nil field leaves the matching condition unmapped.
type Errors struct {
	NotFound  error
	Duplicate error
	// Reference is returned when a foreign key points at a missing row.
	Reference error
}

// Map translates err. sql.ErrNoRows becomes NotFound, unique violations become
// Duplicate, and foreign key violations become Reference. Anything else passes through.
func (e Errors) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && e.NotFound != nil {
		return e.NotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && e.Duplicate != nil:
			return e.Duplicate
		case pgErr.Code == pgForeignKeyViolation && e.Reference != nil:
			return e.Reference
		}
	}

	return err
}
