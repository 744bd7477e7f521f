// Package diagnostics is the error taxonomy and raising machinery of
// spec.md §4.7 and §7: every failing method in the core returns (or
// raises into) an *Error, computed from an absolute offset via
// internal/location. There is no silent recovery in the core —
// RaiseRecoverable has the same contract as Raise (spec.md §7); the
// distinction only matters to an out-of-scope recovery driver.
package diagnostics

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/funvibe/esparse/internal/location"
)

// Kind is the closed taxonomy from spec.md §7.
type Kind string

const (
	// SyntaxError: a well-formed grammar rule was violated at Pos.
	SyntaxError Kind = "SyntaxError"
	// Internal: a sanity-check failure signalling a bug in the parser
	// itself; it should never trigger on valid input handling.
	Internal Kind = "Internal"
)

// Error is the value every fallible core method returns.
type Error struct {
	Kind    Kind
	Message string
	Pos     int
	Loc     location.Position
	Source  string // optional source-file label, empty when unset
	ParseID uuid.UUID
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d:%d)", e.Message, e.Loc.Line, e.Loc.Column)
}

// Raiser computes Positions against one source string and tags every
// Error it produces with the owning parse's correlation ID, so that
// diagnostics from concurrently-running parsers (spec.md §5: one parser
// per goroutine, never shared) can still be told apart in combined
// logs.
type Raiser struct {
	Source  string
	File    string
	ParseID uuid.UUID
}

// NewRaiser creates a Raiser for one parse of src, minting a fresh
// correlation ID.
func NewRaiser(src, file string) *Raiser {
	return &Raiser{Source: src, File: file, ParseID: uuid.New()}
}

// Raise formats "<message> (<line>:<column>)" for pos and returns it as
// a *SyntaxError-kind Error. It never panics; callers propagate the
// returned error instead of unwinding the stack, matching spec.md §7's
// "every method that can fail returns either success or a SyntaxError".
func (r *Raiser) Raise(pos int, message string) *Error {
	return &Error{
		Kind:    SyntaxError,
		Message: message,
		Pos:     pos,
		Loc:     location.Of(r.Source, pos),
		Source:  r.File,
		ParseID: r.ParseID,
	}
}

// RaiseRecoverable behaves as Raise in the core (spec.md §7); the
// surrounding, out-of-scope recovery driver is what would differentiate
// them in a full Acorn-style error-tolerant parse.
func (r *Raiser) RaiseRecoverable(pos int, message string) *Error {
	return r.Raise(pos, message)
}

// InternalError reports a parser-invariant violation — a bug, not a
// malformed-input diagnosis.
func (r *Raiser) InternalError(pos int, message string) *Error {
	err := r.Raise(pos, message)
	err.Kind = Internal
	return err
}
