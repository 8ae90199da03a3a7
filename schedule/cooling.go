// Package schedule implements the time-varying temperature/weight updates
// that specialize a stateless acceptance kernel into a scheduled one (spec
// §4.3): geometric cooling and adaptive-to-target annealing, each
// implementing kernel.PostHook so a driver can wire them in as its
// post-iteration hook.
package schedule

import (
	"math"

	"github.com/paiban/localsearch/kernel"
	"github.com/paiban/localsearch/lserr"
)

// GeometricCooling raises beta by a constant factor every Frequency
// post-iteration hook calls: beta <- beta / gamma, gamma in (0,1] lowering
// temperature (raising beta) over time.
type GeometricCooling struct {
	Beta      *float64
	Gamma     float64
	Frequency int

	calls int
}

// NewGeometricCooling constructs a geometric cooling schedule. gamma must
// be in (0,1], frequency >= 1.
func NewGeometricCooling(beta *float64, gamma float64, frequency int) (*GeometricCooling, error) {
	if beta == nil || *beta <= 0 {
		return nil, lserr.InvalidInput("beta must be > 0")
	}
	if gamma <= 0 || gamma > 1 {
		return nil, lserr.InvalidInput("gamma must be in (0,1]")
	}
	if frequency < 1 {
		frequency = 1
	}
	return &GeometricCooling{Beta: beta, Gamma: gamma, Frequency: frequency}, nil
}

// PostIteration implements kernel.PostHook.
func (c *GeometricCooling) PostIteration(kernel.HookState) {
	c.calls++
	if c.calls%c.Frequency == 0 {
		*c.Beta /= c.Gamma
	}
}

// TuneCoolingRate returns the gamma that carries beta0 to betaFinal over
// exactly n applications of GeometricCooling's beta <- beta/gamma update:
// gamma = (beta0/betaFinal)^(1/n), so for betaFinal > beta0 gamma lands in
// (0,1) as NewGeometricCooling requires.
func TuneCoolingRate(beta0, betaFinal float64, n int) float64 {
	if n <= 0 {
		return 1
	}
	return math.Pow(beta0/betaFinal, 1/float64(n))
}
