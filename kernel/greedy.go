package kernel

import "github.com/paiban/localsearch/lserr"

// greedy never accepts a worse trial. Callers normally never reach Accept
// for an improving trial (the driver accepts those unconditionally), so
// this only matters for the worse-trial branch.
type greedy struct{}

// Greedy returns the hill-climbing kernel: p = 0 for any worse trial.
func Greedy() Kernel { return greedy{} }

func (greedy) Accept(current, trial float64) float64 { return 0 }

// epsilonGreedy accepts a worse trial with fixed probability epsilon,
// irrespective of how much worse it is.
type epsilonGreedy struct{ eps float64 }

// EpsilonGreedy returns a kernel that accepts worse trials with constant
// probability eps. eps must be in [0,1].
func EpsilonGreedy(eps float64) (Kernel, error) {
	if eps < 0 || eps > 1 {
		return nil, lserr.InvalidInput("epsilon must be in [0,1]")
	}
	return epsilonGreedy{eps: eps}, nil
}

func (k epsilonGreedy) Accept(current, trial float64) float64 { return k.eps }

// random always accepts, regardless of score.
type random struct{}

// Random returns a kernel that always accepts: p = 1.
func Random() Kernel { return random{} }

func (random) Accept(current, trial float64) float64 { return 1 }
