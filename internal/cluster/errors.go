package cluster

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the CSV input has no header row.
	ErrEmptyInput = errors.New("cluster data is empty")
)

// FieldError reports a present field that is not a valid float.
type FieldError struct {
	Field string
	Value string
	cause error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.cause)
}

func (e *FieldError) Unwrap() error { return e.cause }

// ParseError locates a FieldError within a CSV input.
type ParseError struct {
	Row  int // 0-based data row, header excluded
	Line int // 1-based line in the input
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d (line %d): %v", e.Row, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Field returns the name of the offending field, if known.
func (e *ParseError) Field() string {
	var fe *FieldError
	if errors.As(e.Err, &fe) {
		return fe.Field
	}
	return ""
}
