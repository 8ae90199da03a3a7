package localsearch

import (
	"context"
	"math/rand"
	"time"

	"github.com/paiban/localsearch/kernel"
	"github.com/paiban/localsearch/lserr"
	"github.com/rs/zerolog"
)

// Config is the common configuration surface shared by every driver in
// this module (spec §6.3).
type Config struct {
	NIter      int           // maximum number of iterations
	TimeLimit  time.Duration // wall-clock budget; 0 forces at most one iteration
	NTrials    int           // candidates sampled per iteration, >= 1
	Patience   int           // consecutive non-improving iterations before early exit; 0 is coerced to 1
	ReturnIter int           // stagnant iterations before reverting to best; 0 disables return-to-best
}

// validate checks Config against spec §7's parameter rules, returning
// *Error(CodeInvalidInput) on violation and coercing patience==0 to 1 per
// §5's cancellation/timeout rule.
func (c *Config) validate() error {
	if c.NTrials < 1 {
		return lserr.InvalidInput("n_trials must be >= 1")
	}
	if c.NIter < 0 {
		return lserr.InvalidInput("n_iter must be >= 0")
	}
	if c.ReturnIter < 0 {
		return lserr.InvalidInput("return_iter must be >= 0")
	}
	if c.Patience < 1 {
		c.Patience = 1
	}
	return nil
}

// Driver is the generic best-of-batch local-search engine (spec §4.1). It
// is parameterized by an acceptance kernel and an optional post-iteration
// hook for schedule updates.
type Driver[S Cloner[S], T any] struct {
	cfg    Config
	kernel kernel.Kernel
	hook   kernel.PostHook
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewDriver constructs a Driver. k must not be nil; hook may be nil.
func NewDriver[S Cloner[S], T any](cfg Config, k kernel.Kernel, hook kernel.PostHook, rng *rand.Rand) (*Driver[S, T], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if k == nil {
		return nil, lserr.InvalidInput("kernel must not be nil")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Driver[S, T]{cfg: cfg, kernel: k, hook: hook, rng: rng, logger: zerolog.Nop()}, nil
}

// SetLogger attaches a logger the driver uses for new-best/termination
// debug lines. Used by the run façade to pass a run-tagged logger through.
func (d *Driver[S, T]) SetLogger(l zerolog.Logger) { d.logger = l }

// leq reports whether a <= b for two Scores sharing a total order.
func leq(a, b Score) bool { return !b.Less(a) }

// Optimize runs the canonical driver loop of spec §4.1 and returns the
// best (solution, score) observed. It never fails: problem-layer failures
// are only surfaced by the run façade during initialization.
func (d *Driver[S, T]) Optimize(ctx context.Context, problem Problem[S, T], initial S, initialScore Score, callback ProgressCallback[S]) (S, Score) {
	budget := NewBudget(d.cfg.NIter, d.cfg.TimeLimit)

	current := initial
	currentScore := initialScore
	best := initial.Clone()
	bestScore := initialScore

	stagnation := 0
	counter := AcceptanceCounter{}
	iter := 0

	for iter < d.cfg.NIter {
		select {
		case <-ctx.Done():
			return best, bestScore
		default:
		}

		candidates := GenerateTrials[S, T](problem, current, currentScore, d.cfg.NTrials, d.rng)
		if len(candidates) == 0 {
			break
		}
		trial := candidates[BestOfBatch(candidates)]

		accept := false
		if leq(trial.Score, currentScore) {
			accept = true
		} else {
			p := d.kernel.Accept(currentScore.Real(), trial.Score.Real())
			if d.rng.Float64() < p {
				accept = true
			}
		}

		// canonical state-update order, spec §4.1 step 4
		if accept {
			current = trial.Solution
			currentScore = trial.Score
		}
		if currentScore.Less(bestScore) {
			best = current.Clone()
			bestScore = currentScore
			stagnation = 0
			d.logger.Debug().Int("iter", iter).Float64("score", bestScore.Real()).Msg("new best")
		} else {
			stagnation++
		}
		counter.Record(accept)
		if d.cfg.ReturnIter > 0 && stagnation >= d.cfg.ReturnIter {
			current = best.Clone()
			currentScore = bestScore
		}
		if d.hook != nil {
			d.hook.PostIteration(kernel.HookState{
				Iter:            iter,
				AcceptanceRatio: counter.Ratio(),
				Current:         currentScore.Real(),
				Best:            bestScore.Real(),
			})
		}
		if stagnation >= d.cfg.Patience {
			d.logger.Debug().Int("iter", iter).Msg("stopped: patience exhausted")
			break
		}
		if budget.Expired() {
			d.logger.Debug().Int("iter", iter).Msg("stopped: time limit reached")
			break
		}

		iter++
		if callback != nil {
			callback(OptProgress[S]{
				Iter:            iter,
				AcceptanceRatio: counter.Ratio(),
				Best:            newSnapshot[S](best),
				BestScore:       bestScore,
			})
		}
	}

	return best, bestScore
}
