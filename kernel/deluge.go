package kernel

import "github.com/paiban/localsearch/lserr"

// GreatDeluge accepts any trial at or below a falling water level L,
// rejecting everything else. L decays toward the running best each
// iteration via PostIteration, so GreatDeluge must be wired in as the
// driver's post-iteration hook.
type GreatDeluge struct {
	Decay float64
	level float64
}

// NewGreatDeluge constructs a Great Deluge kernel with initial water level
// initialLevel and decay in (0,1).
func NewGreatDeluge(initialLevel, decay float64) (*GreatDeluge, error) {
	if decay <= 0 || decay >= 1 {
		return nil, lserr.InvalidInput("decay must be in (0,1)")
	}
	return &GreatDeluge{Decay: decay, level: initialLevel}, nil
}

func (k *GreatDeluge) Accept(current, trial float64) float64 {
	if trial <= k.level {
		return 1
	}
	return 0
}

// Level returns the current water level.
func (k *GreatDeluge) Level() float64 { return k.level }

// PostIteration lowers the water level toward the running best:
// L <- L - decay*(L - best).
func (k *GreatDeluge) PostIteration(state HookState) {
	k.level -= k.Decay * (k.level - state.Best)
}
