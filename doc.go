// Package localsearch implements a family of local-search metaheuristic
// optimizers for single-objective minimization over a user-defined solution
// space. The core does not know the shape of a solution: callers implement
// Problem, supplying random initialization, neighbor generation and
// scoring, and compose that with an acceptance kernel (package kernel) and
// optionally a schedule (package schedule), a tabu memory (package tabu),
// a population (package population) or a replica ladder (package
// tempering).
//
// The library is stateless between Run calls: every PRNG, counter and
// schedule value lives for the duration of a single call and is either
// dropped or returned as part of the final solution.
package localsearch
