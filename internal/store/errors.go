package store

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("conflict")

	// ErrInvalidReference is returned when a foreign key points at a missing record.
	ErrInvalidReference = errors.New("invalid reference")
)

// postgres error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidTextRepr     = "22P02"
)

// mapError translates driver errors into store sentinels.
func mapError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case codeUniqueViolation:
		return ErrConflict
	case codeForeignKeyViolation:
		return ErrInvalidReference
	case codeInvalidTextRepr:
		// malformed uuid literal, nothing can match it
		return ErrNotFound
	}
	return err
}
