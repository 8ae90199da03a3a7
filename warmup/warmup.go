// Package warmup implements the shared temperature-tuning routine of spec
// §4.4: sample energy differences from a random walk, then invert them by
// bisection to pick a beta matching a target acceptance ratio. Shared by
// kernel.Metropolis/SA setup, schedule's adaptive-to-target initialization,
// and tempering's coldest-replica tuning.
package warmup

import (
	"math"
	"math/rand"

	"github.com/paiban/localsearch"
	"github.com/paiban/localsearch/lserr"
)

// SampleEnergyDeltas runs one random initial solution plus w trials from
// it, keeping only the positive score deltas (trial - current).
func SampleEnergyDeltas[S localsearch.Cloner[S], T any](problem localsearch.Problem[S, T], rng *rand.Rand, w int) ([]float64, error) {
	if w < 1 {
		return nil, lserr.InvalidInput("warmup count must be >= 1")
	}
	sol, score, err := problem.RandomSolution(rng)
	if err != nil {
		return nil, lserr.ModelError(err)
	}

	deltas := make([]float64, 0, w)
	for i := 0; i < w; i++ {
		_, _, trialScore := problem.Trial(sol, score, rng)
		delta := trialScore.Real() - score.Real()
		if delta > 0 {
			deltas = append(deltas, delta)
		}
	}
	return deltas, nil
}

// TuneBeta solves mean(exp(-beta*delta)) == target for beta by bisection
// over [lo, hi] (defaults to [1e-9, 1e9] when both are zero). target must
// be in (0,1); deltas must be non-empty.
func TuneBeta(deltas []float64, target, lo, hi float64) (float64, error) {
	if len(deltas) == 0 {
		return 0, lserr.InvalidInput("deltas must not be empty")
	}
	if target <= 0 || target >= 1 {
		return 0, lserr.InvalidInput("target must be in (0,1)")
	}
	if lo == 0 && hi == 0 {
		lo, hi = 1e-9, 1e9
	}

	meanAccept := func(beta float64) float64 {
		sum := 0.0
		for _, d := range deltas {
			sum += math.Exp(-beta * d)
		}
		return sum / float64(len(deltas))
	}

	// meanAccept is strictly decreasing in beta (each term is), so a
	// standard bisection on the sign of (meanAccept(mid) - target)
	// converges to the unique root.
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if meanAccept(mid) > target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// TuneColdestBeta samples energy deltas from problem and inverts them by
// bisection to pick the coldest rung's beta for a tempering ladder: the
// rung that should accept uphill moves at roughly target rate. w is the
// number of trial samples to draw; lo/hi bound the bisection (see
// TuneBeta; 0, 0 defaults to [1e-9, 1e9]).
func TuneColdestBeta[S localsearch.Cloner[S], T any](problem localsearch.Problem[S, T], rng *rand.Rand, w int, target, lo, hi float64) (float64, error) {
	deltas, err := SampleEnergyDeltas[S, T](problem, rng, w)
	if err != nil {
		return 0, err
	}
	return TuneBeta(deltas, target, lo, hi)
}
