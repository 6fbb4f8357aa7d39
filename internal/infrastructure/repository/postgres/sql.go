package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isForeignKeyViolation reports whether err is the postgres foreign key
// error class, raised when a dependent row names a missing match.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
