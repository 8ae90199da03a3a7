// Package kernel implements the acceptance-probability functions of the
// local-search driver (spec §4.2): pure functions mapping a (current,
// trial) score pair to an acceptance probability in [0,1].
package kernel

// Kernel maps a (current, trial) real-valued score pair to an acceptance
// probability in [0,1]. Implementations are pure: given the same inputs
// they return the same probability, with any mutable schedule state read
// through a pointer the caller owns (see Metropolis) or updated only by the
// kernel's own PostIteration (see TsallisRelative, GreatDeluge).
type Kernel interface {
	Accept(current, trial float64) float64
}

// HookState is passed to every PostHook once per driver iteration, after
// bookkeeping and before the next fan-out (spec §4.1 step 5).
type HookState struct {
	Iter            int
	AcceptanceRatio float64
	Current         float64
	Best            float64
}

// PostHook is an optional extension some kernels (TsallisRelative,
// GreatDeluge) and all schedulers implement to update their own mutable
// state once per iteration.
type PostHook interface {
	PostIteration(HookState)
}

// clamp forces p into [0,1], handling NaN (treated as reject) and the
// saturating-exp case where p may already be +Inf or -Inf.
func clamp(p float64) float64 {
	if p != p { // NaN
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
