package kernel

import (
	"math"

	"github.com/paiban/localsearch/lserr"
)

// metropolis accepts a worse trial with probability exp(-beta*delta).
// Beta is a pointer so a schedule (package schedule) can mutate it in its
// PostIteration hook between iterations without this kernel knowing
// anything about cooling — the same trick the teacher's local_search.go
// used with its own `temperature` loop variable, generalized to a shared
// pointer so the caller can own the schedule independently.
type metropolis struct{ beta *float64 }

// Metropolis returns the classic Metropolis acceptance kernel, p =
// exp(-beta*delta). Pass beta as a pointer so a cooling schedule can
// mutate it in place (this is also how simulated annealing is built: wrap
// Metropolis with schedule.GeometricCooling driving the same pointer).
// *beta must be > 0 at call time.
func Metropolis(beta *float64) (Kernel, error) {
	if beta == nil || *beta <= 0 {
		return nil, lserr.InvalidInput("beta must be > 0")
	}
	return metropolis{beta: beta}, nil
}

func (k metropolis) Accept(current, trial float64) float64 {
	delta := trial - current
	if delta <= 0 {
		return 1
	}
	return clamp(math.Exp(-*k.beta * delta))
}

// relativeAnnealing accepts with probability exp(-beta*r), r = delta/current.
type relativeAnnealing struct{ beta *float64 }

// RelativeAnnealing returns a kernel using the relative energy ratio
// r = (trial-current)/current instead of the raw difference. Undefined
// when current == 0: Go's float64 division by zero yields a signed
// infinity, which the exp/clamp path below saturates to 0 or 1 rather
// than panicking.
func RelativeAnnealing(beta *float64) (Kernel, error) {
	if beta == nil || *beta <= 0 {
		return nil, lserr.InvalidInput("beta must be > 0")
	}
	return relativeAnnealing{beta: beta}, nil
}

func (k relativeAnnealing) Accept(current, trial float64) float64 {
	delta := trial - current
	if delta <= 0 {
		return 1
	}
	r := delta / current
	return clamp(math.Exp(-*k.beta * r))
}

// logisticAnnealing accepts with probability 2/(1+exp(w*r)).
type logisticAnnealing struct{ w float64 }

// LogisticAnnealing returns a kernel with a logistic acceptance curve in
// the relative ratio r = (trial-current)/current. w must be > 0. Undefined
// when current == 0: the signed infinity from the division saturates the
// probability to 0 or 1 rather than panicking.
func LogisticAnnealing(w float64) (Kernel, error) {
	if w <= 0 {
		return nil, lserr.InvalidInput("w must be > 0")
	}
	return logisticAnnealing{w: w}, nil
}

func (k logisticAnnealing) Accept(current, trial float64) float64 {
	delta := trial - current
	if delta <= 0 {
		return 1
	}
	r := delta / current
	return clamp(2 / (1 + math.Exp(k.w*r)))
}
