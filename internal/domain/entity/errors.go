package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for parsing and rendering the entry list.
var (
	// ErrUnknownField indicates a record key outside the recognized set
	ErrUnknownField = errors.New("unknown field")

	// ErrDuplicateField indicates a record specifying the same field twice
	ErrDuplicateField = errors.New("duplicate field")

	// ErrMissingField indicates a record lacking a required field
	ErrMissingField = errors.New("missing field")

	// ErrInvalidValue indicates a field value that could not be interpreted
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidType indicates a node of the wrong YAML kind (e.g. a mapping where a string was expected)
	ErrInvalidType = errors.New("invalid type")

	// ErrInvalidDate indicates an entry date that cannot be displayed
	ErrInvalidDate = errors.New("invalid date")
)

// ParseErrorKind enumerates the ways a record can fail to parse.
type ParseErrorKind int

const (
	KindUnknownField ParseErrorKind = iota + 1
	KindDuplicateField
	KindMissingField
	KindInvalidValue
	KindInvalidType
)

func (k ParseErrorKind) String() string {
	switch k {
	case KindUnknownField:
		return "unknown_field"
	case KindDuplicateField:
		return "duplicate_field"
	case KindMissingField:
		return "missing_field"
	case KindInvalidValue:
		return "invalid_value"
	case KindInvalidType:
		return "invalid_type"
	default:
		return "unknown"
	}
}

func (k ParseErrorKind) sentinel() error {
	switch k {
	case KindUnknownField:
		return ErrUnknownField
	case KindDuplicateField:
		return ErrDuplicateField
	case KindMissingField:
		return ErrMissingField
	case KindInvalidValue:
		return ErrInvalidValue
	case KindInvalidType:
		return ErrInvalidType
	default:
		return nil
	}
}

// ParseError describes why a single record of the input document was rejected.
// Index is the 0-based record position and Line the 1-based YAML line; both are
// zero when the failure concerns the document as a whole.
type ParseError struct {
	Kind   ParseErrorKind
	Field  string
	Value  string
	Detail string
	Index  int
	Line   int
}

// Error returns a formatted message naming the failure kind and its location.
func (e *ParseError) Error() string {
	var msg string
	switch e.Kind {
	case KindUnknownField:
		msg = fmt.Sprintf("unknown field `%s`, expected one of %s", e.Field, recognizedFieldList)
	case KindDuplicateField:
		msg = fmt.Sprintf("duplicate field `%s`", e.Field)
	case KindMissingField:
		msg = fmt.Sprintf("missing field `%s`", e.Field)
	case KindInvalidValue:
		msg = fmt.Sprintf("invalid value %q for field `%s`", e.Value, e.Field)
	case KindInvalidType:
		msg = fmt.Sprintf("invalid type for `%s`", e.Field)
	default:
		msg = "parse error"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Line > 0 {
		return fmt.Sprintf("record %d (line %d): %s", e.Index, e.Line, msg)
	}
	return msg
}

// Unwrap maps the kind onto its sentinel so callers can use errors.Is.
func (e *ParseError) Unwrap() error {
	return e.Kind.sentinel()
}

const recognizedFieldList = "`date`, `id`, `nominator`, `note`, `url`"
