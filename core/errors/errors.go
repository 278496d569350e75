// Package errors provides standardized error types and helpers for the unit
// algebra, expression parser and converter registry.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for every failure kind surfaced to callers.
var (
	// ErrMalformedInput indicates unmatched or cross-typed brackets
	ErrMalformedInput = errors.New("malformed input")
	// ErrEmptyExpression indicates an empty unit expression or sub-expression
	ErrEmptyExpression = errors.New("empty expression")
	// ErrUnknownUnit indicates an atomic unit token missing from the lookup table
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrInvalidExponent indicates an exponent that is not a numeric expression
	ErrInvalidExponent = errors.New("invalid exponent")
	// ErrIncompatibleUnits indicates differing unit systems or exponent vectors
	ErrIncompatibleUnits = errors.New("incompatible units")
	// ErrUnsupportedComposition indicates composing opaque conversion functions
	ErrUnsupportedComposition = errors.New("unsupported composition")
	// ErrUnsupportedExponent indicates an exponent a unit cannot be raised to
	ErrUnsupportedExponent = errors.New("unsupported exponent")
	// ErrConstantMathDisabled indicates unit/constant math under the disabled convention
	ErrConstantMathDisabled = errors.New("constant math disabled")
	// ErrDuplicateKey indicates a registry key or alias collision
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound indicates a registry entry was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidSearchField indicates an unknown registry search field
	ErrInvalidSearchField = errors.New("invalid search field")
)

// BracketError reports a bracket that has no matching counterpart.
type BracketError struct {
	Text    string // Text being scanned
	Index   int    // Index of the offending bracket, -1 if not applicable
	Message string
}

func (e *BracketError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("malformed input %q at index %d: %s", e.Text, e.Index, e.Message)
	}
	return fmt.Sprintf("malformed input %q: %s", e.Text, e.Message)
}

func (e *BracketError) Unwrap() error {
	return ErrMalformedInput
}

// ExpressionError represents a failure while parsing a unit expression
type ExpressionError struct {
	Expression string // Full expression passed by the caller
	Term       string // Sub-expression being evaluated when the failure occurred
	Message    string // Human-readable error message
	Err        error  // Kind of failure (one of the sentinels above)
}

func (e *ExpressionError) Error() string {
	if e.Term != "" && e.Term != e.Expression {
		return fmt.Sprintf("parsing unit %q: %s %q: %v", e.Expression, e.Message, e.Term, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("parsing unit %q: %s: %v", e.Expression, e.Message, e.Err)
	}
	return fmt.Sprintf("parsing unit %q: %v", e.Expression, e.Err)
}

func (e *ExpressionError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IncompatibleError represents a conversion or composition between units that
// cannot be related to one another
type IncompatibleError struct {
	From   string // Label of the source unit
	To     string // Label of the target unit
	Reason string
}

func (e *IncompatibleError) Error() string {
	from, to := e.From, e.To
	if from == "" {
		from = "<unnamed>"
	}
	if to == "" {
		to = "<unnamed>"
	}
	if e.Reason != "" {
		return fmt.Sprintf("incompatible units %s and %s: %s", from, to, e.Reason)
	}
	return fmt.Sprintf("incompatible units %s and %s", from, to)
}

func (e *IncompatibleError) Unwrap() error {
	return ErrIncompatibleUnits
}

// DuplicateKeyError reports a key or alias that is already registered
type DuplicateKeyError struct {
	Key   string // Colliding key or alias
	Owner string // Primary key of the entry already holding Key, if any
}

func (e *DuplicateKeyError) Error() string {
	if e.Owner != "" && e.Owner != e.Key {
		return fmt.Sprintf("duplicate key %q: already an alias of %q", e.Key, e.Owner)
	}
	return fmt.Sprintf("duplicate key %q", e.Key)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "unit", "search field")
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

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Helper functions for creating common errors

// NewBracket creates a BracketError
func NewBracket(text string, index int, message string) *BracketError {
	return &BracketError{Text: text, Index: index, Message: message}
}

// NewExpression creates an ExpressionError of the given kind
func NewExpression(expression, term, message string, kind error) *ExpressionError {
	return &ExpressionError{
		Expression: expression,
		Term:       term,
		Message:    message,
		Err:        kind,
	}
}

// NewIncompatible creates an IncompatibleError
func NewIncompatible(from, to, reason string) *IncompatibleError {
	return &IncompatibleError{From: from, To: to, Reason: reason}
}

// NewDuplicateKey creates a DuplicateKeyError
func NewDuplicateKey(key, owner string) *DuplicateKeyError {
	return &DuplicateKeyError{Key: key, Owner: owner}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
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
