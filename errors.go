package cryptkeeper

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
//
// All of these are generation-time failures: any one of them aborts
// generation for the whole package and no output file is written.
var (
	// ErrMissingService indicates a struct requires generation but its
	// directive does not name a service expression.
	ErrMissingService = errors.New("missing service")

	// ErrUnknownDirective indicates an unrecognized container key or field
	// tag token. Unknown directives fail generation so a typo can never
	// silently disable encryption.
	ErrUnknownDirective = errors.New("unknown directive")

	// ErrUnsupportedField indicates a crypt tag on a field whose declared
	// type is not string, *string, or []string.
	ErrUnsupportedField = errors.New("unsupported field type")

	// ErrDirectiveConflict indicates a digest sibling that carries its own
	// crypt operations, which the digest assignment would overwrite.
	ErrDirectiveConflict = errors.New("conflicting directives")

	// ErrUnresolvedImport indicates a package qualifier in a service or
	// digest expression that does not match any import of the source file.
	ErrUnresolvedImport = errors.New("unresolved import")
)

// DirectiveError represents a generation-time directive failure.
// It wraps a sentinel error with the struct, field, and detail involved so
// build output points at the offending annotation.
type DirectiveError struct {
	Err    error  // Underlying sentinel error (ErrMissingService, etc.)
	Struct string // Struct type name
	Field  string // Field name, empty for container-level failures
	Detail string // Offending key, token, or type, if any
}

func (e *DirectiveError) Error() string {
	switch {
	case e.Field != "" && e.Detail != "":
		return fmt.Sprintf("%s: %q on field %s.%s", e.Err.Error(), e.Detail, e.Struct, e.Field)
	case e.Field != "":
		return fmt.Sprintf("%s: field %s.%s", e.Err.Error(), e.Struct, e.Field)
	case e.Detail != "":
		return fmt.Sprintf("%s: %q on struct %s", e.Err.Error(), e.Detail, e.Struct)
	default:
		return fmt.Sprintf("%s: struct %s", e.Err.Error(), e.Struct)
	}
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}

// NewDirectiveError creates a DirectiveError for a generation failure.
func NewDirectiveError(sentinel error, structName, field, detail string) error {
	return &DirectiveError{
		Err:    sentinel,
		Struct: structName,
		Field:  field,
		Detail: detail,
	}
}
