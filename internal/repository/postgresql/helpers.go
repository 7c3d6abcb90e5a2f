package postgresql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// nullable maps the empty string to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isInvalidText reports a malformed literal such as a bad uuid, which the
// repositories treat as not found.
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
