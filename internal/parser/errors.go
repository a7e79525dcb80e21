package parser

import (
	"errors"
	"fmt"
)

// ErrNotAPoi is returned when the document root is not a <prefab> element.
// Decoration and block definitions live next to prefabs, so this is the
// common case and callers skip it silently.
var ErrNotAPoi = errors.New("not a prefab document")

// Required property names reported by MissingFieldError
const (
	FieldPrefabSize = "PrefabSize"
	FieldYOffset    = "YOffset"
)

// MissingFieldError reports a prefab without a usable PrefabSize or YOffset
type MissingFieldError struct {
	Name    string // POI name (filename without .xml)
	RootTag string // Root element tag
	Field   string // FieldPrefabSize or FieldYOffset
}

// Error implements the error interface for MissingFieldError.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s, %s has bad or no %s tag", e.Name, e.RootTag, e.Field)
}

// ParseError wraps a failure to decode a file as XML
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsSkip reports whether err is one of the per-file skip reasons
// (ErrNotAPoi, *MissingFieldError, *ParseError) as opposed to an I/O failure.
func IsSkip(err error) bool {
	if errors.Is(err, ErrNotAPoi) {
		return true
	}
	var missing *MissingFieldError
	if errors.As(err, &missing) {
		return true
	}
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
