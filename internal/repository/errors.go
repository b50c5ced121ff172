package repository

import "fmt"

// DBError wraps any failure reported by the underlying storage. The wrapped
// error is preserved for inspection via errors.As/Is.
type DBError struct {
	Err error
}

func (e *DBError) Error() string {
	return "database error: " + e.Err.Error()
}

func (e *DBError) Unwrap() error {
	return e.Err
}

// InvalidSortingError reports a sort field that is not applicable to the
// query it was requested for, e.g. a similarity sort without a search term.
// It is returned before any SQL is issued.
type InvalidSortingError struct {
	Field SortingField
}

func (e *InvalidSortingError) Error() string {
	return fmt.Sprintf("sorting by %q is not valid for this query", e.Field)
}

// SerializationError reports a stored row that cannot be decoded into a
// domain entity, e.g. image bytes without a content type.
type SerializationError struct {
	Detail string
}

func (e *SerializationError) Error() string {
	return "failed to decode stored row: " + e.Detail
}

// UniqueConstraintError represents a database unique constraint violation.
type UniqueConstraintError struct {
	Detail string
}

func (e *UniqueConstraintError) Error() string {
	return "resource must be unique: " + e.Detail
}
