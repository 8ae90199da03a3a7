package localsearch

import "time"

// Budget gates driver termination on wall-clock time. time_limit == 0
// forces at most one iteration: the deadline is set to the construction
// time itself, so the first boundary check (run strictly after an
// iteration's bookkeeping) already trips.
type Budget struct {
	deadline time.Time
	nIter    int
}

// NewBudget constructs a budget for at most nIter iterations or until
// limit has elapsed from now, whichever comes first.
func NewBudget(nIter int, limit time.Duration) *Budget {
	if nIter < 0 {
		nIter = 0
	}
	return &Budget{
		deadline: time.Now().Add(limit),
		nIter:    nIter,
	}
}

// Expired reports whether the wall-clock deadline has passed.
func (b *Budget) Expired() bool {
	return !time.Now().Before(b.deadline)
}

// IterationsExhausted reports whether iter has reached the configured
// iteration cap.
func (b *Budget) IterationsExhausted(iter int) bool {
	return iter >= b.nIter
}
