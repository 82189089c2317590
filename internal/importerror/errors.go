// Package importerror defines the error taxonomy of the import pipeline.
//
// Provider errors are recoverable and drive tier escalation. Catalog errors
// signal an incomplete category catalog and are never masked by a fallback.
package importerror

import (
	"errors"
	"fmt"
)

// ErrAllTiersFailed is returned when every provider tier in a chain failed.
var ErrAllTiersFailed = errors.New("all provider tiers failed")

// ErrNoCategoryOfType is the sentinel wrapped by CatalogError.
var ErrNoCategoryOfType = errors.New("no category of the required type in catalog")

// ProviderError wraps a failure of a single LLM provider call.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// CatalogError reports that the catalog has no category of the given type.
type CatalogError struct {
	Type string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("category catalog has no %q category: %v", e.Type, ErrNoCategoryOfType)
}

func (e *CatalogError) Unwrap() error {
	return ErrNoCategoryOfType
}

// ParseError represents a value that could not be parsed from a statement.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents invalid caller input on the manual-entry path.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsCatalogError reports whether err is (or wraps) a catalog configuration error.
func IsCatalogError(err error) bool {
	return errors.Is(err, ErrNoCategoryOfType)
}
