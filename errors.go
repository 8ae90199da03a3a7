package localsearch

import "github.com/paiban/localsearch/lserr"

// Code enumerates the typed error categories the library surfaces (spec
// §6.5). Only failures at run-initialization boundaries or
// constructor-time parameter validation produce an *Error; the driver loop
// itself never fails (see Driver.Optimize). Re-exported from lserr so leaf
// packages can construct the same error vocabulary without importing this
// package (see lserr's doc comment for why).
type Code = lserr.Code

const (
	CodeInvalidInput    = lserr.CodeInvalidInput
	CodeModelError      = lserr.CodeModelError
	CodeEmptyPopulation = lserr.CodeEmptyPopulation
	CodeEmptyLadder     = lserr.CodeEmptyLadder
)

// Error is the library's typed error. Cause, when set, is reachable via
// errors.Unwrap/errors.As.
type Error = lserr.Error

// InvalidInput builds a CodeInvalidInput error.
func InvalidInput(message string) *Error { return lserr.InvalidInput(message) }

// ModelError wraps a failure raised by the user's Problem implementation.
func ModelError(cause error) *Error { return lserr.ModelError(cause) }

// ErrEmptyPopulation is returned when population annealing is constructed
// or run with a zero-size population.
var ErrEmptyPopulation = lserr.ErrEmptyPopulation

// ErrEmptyLadder is returned when parallel tempering is constructed with a
// zero-length beta ladder.
var ErrEmptyLadder = lserr.ErrEmptyLadder

// Is reports whether err is an *Error with the given code.
func Is(err error, code Code) bool { return lserr.Is(err, code) }
