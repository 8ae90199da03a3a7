package kernel

import (
	"math"

	"github.com/paiban/localsearch/lserr"
)

// TsallisRelative implements the generalized Tsallis acceptance rule
// (spec §4.2): for a worse trial,
//
//	p = max(p_min, [1 - (1-q)*beta*delta / (current - offset + xi)]^(1/(1-q)))
//
// offset tracks the best-so-far score and is updated once per iteration
// via PostIteration, which is why TsallisRelative implements PostHook:
// the driver must wire it in as the post-iteration hook (or compose it
// with another hook) for offset to track the true best.
type TsallisRelative struct {
	Q      float64
	Beta   float64
	Xi     float64
	PMin   float64
	offset float64
}

// NewTsallisRelative constructs a Tsallis kernel. q must be > 1, beta > 0,
// xi > 0, pMin in [0,1]. xi defaults to 1e-6 and pMin to 0 when passed as
// zero (spec §9 leaves both algorithm-dependent; see DESIGN.md for why
// these particular defaults).
func NewTsallisRelative(q, beta, xi, pMin float64) (*TsallisRelative, error) {
	if q <= 1 {
		return nil, lserr.InvalidInput("q must be > 1")
	}
	if beta <= 0 {
		return nil, lserr.InvalidInput("beta must be > 0")
	}
	if xi <= 0 {
		xi = 1e-6
	}
	if pMin < 0 || pMin > 1 {
		return nil, lserr.InvalidInput("p_min must be in [0,1]")
	}
	return &TsallisRelative{Q: q, Beta: beta, Xi: xi, PMin: pMin}, nil
}

func (k *TsallisRelative) Accept(current, trial float64) float64 {
	delta := trial - current
	if delta <= 0 {
		return 1
	}
	denom := current - k.offset + k.Xi
	base := 1 - (1-k.Q)*k.Beta*delta/denom
	if base < 0 {
		base = 0
	}
	p := math.Pow(base, 1/(1-k.Q))
	p = clamp(p)
	if p < k.PMin {
		return k.PMin
	}
	return p
}

// PostIteration updates offset to the current best-so-far score.
func (k *TsallisRelative) PostIteration(state HookState) {
	k.offset = state.Best
}
