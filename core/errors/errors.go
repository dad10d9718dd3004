// Package errors provides standardized error types and helpers for reading and
// writing WN-LMF documents.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrMalformedHeader indicates a missing or unknown document preamble
	ErrMalformedHeader = errors.New("malformed header")
	// ErrStructure indicates markup that does not follow the document grammar
	ErrStructure = errors.New("invalid document structure")
	// ErrInvalidRelation indicates a relation type outside the permitted vocabulary
	ErrInvalidRelation = fmt.Errorf("invalid relation: %w", ErrStructure)
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// HeaderError reports a preamble line that does not match the format.
type HeaderError struct {
	Line    int    // 1 for the XML declaration, 2 for the document type
	Got     string // Line content as read (may be truncated)
	Message string
}

func (e *HeaderError) Error() string {
	if e.Got != "" {
		return fmt.Sprintf("malformed header line %d: %s: %q", e.Line, e.Message, truncate(e.Got, 80))
	}
	return fmt.Sprintf("malformed header line %d: %s", e.Line, e.Message)
}

func (e *HeaderError) Unwrap() error {
	return ErrMalformedHeader
}

// StructureError reports an element or attribute that the grammar did not
// expect at the current position.
type StructureError struct {
	Expected []string // Acceptable tag names, if the error is a tag mismatch
	Got      string   // What was found instead, rendered as markup
	Message  string   // Free-form detail when the error is not a tag mismatch
}

func (e *StructureError) Error() string {
	if len(e.Expected) > 0 {
		return fmt.Sprintf("expected %s, got %s", strings.Join(e.Expected, "|"), e.Got)
	}
	return e.Message
}

func (e *StructureError) Unwrap() error {
	return ErrStructure
}

// RelationError reports a relation whose type is not permitted for its owner.
type RelationError struct {
	Owner   string // "sense" or "synset"
	RelType string
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("invalid %s relation: %s", e.Owner, e.RelType)
}

func (e *RelationError) Unwrap() error {
	return ErrInvalidRelation
}

// ParseError represents a tokenizer failure on malformed markup.
type ParseError struct {
	Format  string // Format being parsed (e.g., "WN-LMF")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports malformed markup as a structural failure.
func (e *ParseError) Is(target error) bool {
	return target == ErrStructure
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "archive member", "schema")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewHeader creates a HeaderError
func NewHeader(line int, got, message string) *HeaderError {
	return &HeaderError{
		Line:    line,
		Got:     got,
		Message: message,
	}
}

// NewMismatch creates a StructureError for an unexpected tag.
func NewMismatch(got string, expected ...string) *StructureError {
	return &StructureError{
		Expected: expected,
		Got:      got,
	}
}

// NewStructure creates a StructureError with a free-form message.
func NewStructure(format string, args ...interface{}) *StructureError {
	return &StructureError{
		Message: fmt.Sprintf(format, args...),
	}
}

// NewRelation creates a RelationError
func NewRelation(owner, relType string) *RelationError {
	return &RelationError{
		Owner:   owner,
		RelType: relType,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
