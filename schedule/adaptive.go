package schedule

import (
	"math"

	"github.com/paiban/localsearch/kernel"
	"github.com/paiban/localsearch/lserr"
)

// AdaptiveToTarget pushes beta up when the chain is accepting more than
// the target curve wants and down when it is too restrictive:
//
//	beta <- beta * exp(-gamma * (a* - a) / a*)
type AdaptiveToTarget struct {
	Beta   *float64
	Target TargetCurve
	Gamma  float64
}

// NewAdaptiveToTarget constructs an adaptive schedule. gamma must be > 0.
func NewAdaptiveToTarget(beta *float64, target TargetCurve, gamma float64) (*AdaptiveToTarget, error) {
	if beta == nil || *beta <= 0 {
		return nil, lserr.InvalidInput("beta must be > 0")
	}
	if target == nil {
		return nil, lserr.InvalidInput("target curve must not be nil")
	}
	if gamma <= 0 {
		return nil, lserr.InvalidInput("gamma must be > 0")
	}
	return &AdaptiveToTarget{Beta: beta, Target: target, Gamma: gamma}, nil
}

// PostIteration implements kernel.PostHook.
func (a *AdaptiveToTarget) PostIteration(state kernel.HookState) {
	target := a.Target.At(state.Iter)
	if target <= 0 {
		return
	}
	*a.Beta *= math.Exp(-a.Gamma * (target - state.AcceptanceRatio) / target)
}
