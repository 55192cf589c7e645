package factstore

import (
	"errors"
	"fmt"
)

// Common fact store errors
var (
	// ErrKeyNotFound indicates a lookup named a predicate with no entry for the requested sign
	ErrKeyNotFound = errors.New("predicate not found")

	// ErrMalformedInput indicates a record could not be decoded into a fact
	ErrMalformedInput = errors.New("malformed input")

	// ErrShapeMismatch indicates a tuple's arity disagrees with its relation signature
	ErrShapeMismatch = errors.New("tuple arity does not match signature")
)

// Side names which mapping of a store a lookup addressed.
type Side string

const (
	SidePositive Side = "positive"
	SideNegative Side = "negative"
	SideFuzzy    Side = "fuzzy"
)

// KeyNotFoundError reports a strict lookup of an absent predicate.
type KeyNotFoundError struct {
	Predicate string
	Side      Side
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("%s predicate %q not found", e.Side, e.Predicate)
}

// Is implements errors.Is support for KeyNotFoundError.
func (e *KeyNotFoundError) Is(target error) bool {
	if target == ErrKeyNotFound {
		return true
	}
	_, ok := target.(*KeyNotFoundError)
	return ok
}

// MalformedInputError identifies the record that failed to decode.
type MalformedInputError struct {
	// Source is the file (or stream name) the record came from
	Source string

	// Line is the 1-based line number of the record, 0 if unknown
	Line int

	// Record is the raw record text
	Record string

	// Reason describes what was wrong with the record
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at %s:%d %q: %s", e.Source, e.Line, e.Record, e.Reason)
	}
	return fmt.Sprintf("malformed record in %s %q: %s", e.Source, e.Record, e.Reason)
}

// Is implements errors.Is support for MalformedInputError.
func (e *MalformedInputError) Is(target error) bool {
	if target == ErrMalformedInput {
		return true
	}
	_, ok := target.(*MalformedInputError)
	return ok
}

// ShapeMismatchError reports a stored tuple whose arity disagrees with the
// domain list declared for its predicate.
type ShapeMismatchError struct {
	Predicate string
	Tuple     Tuple
	Expected  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("predicate %q: tuple %s has arity %d, signature declares %d",
		e.Predicate, e.Tuple, len(e.Tuple), e.Expected)
}

// Is implements errors.Is support for ShapeMismatchError.
func (e *ShapeMismatchError) Is(target error) bool {
	if target == ErrShapeMismatch {
		return true
	}
	_, ok := target.(*ShapeMismatchError)
	return ok
}
