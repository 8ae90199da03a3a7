package localsearch

import "math/rand"

// Cloner is satisfied by any Solution type: a driver clones the current
// solution whenever it needs an independent scratch copy for a parallel
// worker, so clones must be deep enough to mutate safely without touching
// the original.
type Cloner[S any] interface {
	Clone() S
}

// Score is a totally ordered, cheaply copyable scoring value. Smaller is
// better. Real exposes a finite real-valued projection for acceptance
// kernels that need exp/division arithmetic; implementations that are
// already float64-shaped can just return themselves.
type Score interface {
	// Less reports whether s is strictly better (lower) than other.
	Less(other Score) bool
	// Real returns a finite real projection of the score.
	Real() float64
}

// Problem is the contract a caller implements. S is the solution type, T
// the transition/move descriptor type consumed by the tabu engine (other
// drivers ignore it). Both must be safe to share read-only across parallel
// workers; S must additionally be cloneable.
type Problem[S Cloner[S], T any] interface {
	// RandomSolution produces a scored random solution. Must be a
	// deterministic function of rng. May fail.
	RandomSolution(rng *rand.Rand) (S, Score, error)

	// Trial produces a scored neighbor of current. Infallible by
	// contract: an implementation that cannot find a neighbor must
	// return current unchanged with currentScore, which is always
	// accepted (the kernel never gets the chance to reject a
	// non-move).
	Trial(current S, currentScore Score, rng *rand.Rand) (S, T, Score)
}

// Preprocessor is an optional extension of Problem. When a Problem
// implements it, Run/RunWithCallback call Preprocess on the initial
// (solution, score) pair before the first iteration. Problems that don't
// implement it get identity preprocessing.
type Preprocessor[S any] interface {
	Preprocess(sol S, score Score) (S, Score, error)
}

// Postprocessor is an optional extension of Problem, symmetric with
// Preprocessor but infallible and applied to the final result.
type Postprocessor[S any] interface {
	Postprocess(sol S, score Score) (S, Score)
}
