package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"moments/apperr"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translateConstraint turns Postgres constraint violations into the typed
// errors the rest of the system understands: a unique violation is a
// duplicate relationship, a foreign key violation means the referenced row
// does not exist.
func translateConstraint(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return apperr.ErrDuplicate
	case pqForeignKeyViolation:
		return apperr.ErrNotFound
	}
	return err
}

// orderClause builds an ORDER BY clause from a client-supplied ordering key.
// A leading '-' means descending. Keys outside the allowed set fall back to
// the default so clients can never inject SQL through ordering.
func orderClause(ordering string, allowed map[string]string, def string) string {
	direction := "ASC"
	key := ordering
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		key = ordering[1:]
	}

	column, ok := allowed[key]
	if !ok {
		return def
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}

// limitOffset normalizes pagination values and renders them as a SQL suffix.
func limitOffset(limit, offset int) string {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}
