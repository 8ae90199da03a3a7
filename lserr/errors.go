// Package lserr is the shared typed-error vocabulary for the localsearch
// module (spec §6.5). It lives in its own package, rather than the root
// localsearch package, purely to let leaf packages (kernel, schedule,
// tabu, population, tempering, warmup) construct these errors during
// constructor-time parameter validation without an import cycle back to
// the root package, which itself depends on those leaves. The root
// package re-exports everything here under the same names.
package lserr

import (
	"errors"
	"fmt"
)

// Code enumerates the typed error categories the library surfaces.
type Code string

const (
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeModelError      Code = "MODEL_ERROR"
	CodeEmptyPopulation Code = "EMPTY_POPULATION"
	CodeEmptyLadder     Code = "EMPTY_LADDER"
)

// Error is the library's typed error. Cause, when set, is reachable via
// errors.Unwrap/errors.As.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// InvalidInput builds a CodeInvalidInput error, used by constructor-time
// parameter validation (n_trials >= 1, beta > 0, gamma in (0,1], epsilon
// in [0,1], q > 1, ...). Patience below 1 is coerced to 1 rather than
// rejected, and an empty ladder or population is reported with
// ErrEmptyLadder or ErrEmptyPopulation instead.
func InvalidInput(message string) *Error {
	return &Error{Code: CodeInvalidInput, Message: message}
}

// ModelError wraps a failure raised by the user's Problem implementation
// (RandomSolution or Preprocess) so it is distinguishable from the
// library's own input validation.
func ModelError(cause error) *Error {
	return &Error{Code: CodeModelError, Message: "model returned an error", Cause: cause}
}

// ErrEmptyPopulation is returned when population annealing is constructed
// or run with a zero-size population.
var ErrEmptyPopulation = &Error{Code: CodeEmptyPopulation, Message: "population must contain at least one member"}

// ErrEmptyLadder is returned when parallel tempering is constructed with
// a zero-length beta ladder.
var ErrEmptyLadder = &Error{Code: CodeEmptyLadder, Message: "beta ladder must contain at least one replica"}

// Is reports whether err is an *Error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
