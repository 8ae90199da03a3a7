package tabu

import (
	"context"
	"math/rand"
	"sort"

	"github.com/paiban/localsearch"
	"github.com/paiban/localsearch/lserr"
	"github.com/rs/zerolog"
)

// Driver is the tabu-search specialization of the generic driver (spec
// §4.5): it has no acceptance kernel, replacing probabilistic acceptance
// with a deterministic aspiration-or-not-forbidden selection rule.
type Driver[S localsearch.Cloner[S], T any] struct {
	cfg     localsearch.Config
	list    List
	hashKey func(T) uint64
	rng     *rand.Rand
	logger  zerolog.Logger
}

// NewDriver constructs a tabu Driver. list holds recent transitions;
// hashKey derives a List key from a Transition (use HashBytes/HashUUID,
// or a caller-supplied hash for richer Transition types).
func NewDriver[S localsearch.Cloner[S], T any](cfg localsearch.Config, list List, hashKey func(T) uint64, rng *rand.Rand) (*Driver[S, T], error) {
	if list == nil {
		return nil, lserr.InvalidInput("tabu list must not be nil")
	}
	if hashKey == nil {
		return nil, lserr.InvalidInput("hashKey must not be nil")
	}
	if cfg.NTrials < 1 {
		return nil, lserr.InvalidInput("n_trials must be >= 1")
	}
	if cfg.NIter < 0 {
		return nil, lserr.InvalidInput("n_iter must be >= 0")
	}
	if cfg.ReturnIter < 0 {
		return nil, lserr.InvalidInput("return_iter must be >= 0")
	}
	if cfg.Patience < 1 {
		cfg.Patience = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Driver[S, T]{cfg: cfg, list: list, hashKey: hashKey, rng: rng, logger: zerolog.Nop()}, nil
}

// SetLogger attaches a logger for new-best/termination debug lines.
func (d *Driver[S, T]) SetLogger(l zerolog.Logger) { d.logger = l }

// Optimize runs the tabu-search loop of spec §4.5 on top of the canonical
// bookkeeping of §4.1.
func (d *Driver[S, T]) Optimize(ctx context.Context, problem localsearch.Problem[S, T], initial S, initialScore localsearch.Score, callback localsearch.ProgressCallback[S]) (S, localsearch.Score) {
	budget := localsearch.NewBudget(d.cfg.NIter, d.cfg.TimeLimit)

	current := initial
	currentScore := initialScore
	best := initial.Clone()
	bestScore := initialScore

	stagnation := 0
	counter := localsearch.AcceptanceCounter{}
	iter := 0

	for iter < d.cfg.NIter {
		select {
		case <-ctx.Done():
			return best, bestScore
		default:
		}

		candidates := localsearch.GenerateTrials[S, T](problem, current, currentScore, d.cfg.NTrials, d.rng)
		if len(candidates) == 0 {
			break
		}
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].Score.Less(candidates[j].Score)
		})

		accept := false
		var chosenIdx int
		for i, c := range candidates {
			aspiration := c.Score.Less(bestScore)
			if aspiration || !d.list.Contains(d.hashKey(c.Transition)) {
				accept = true
				chosenIdx = i
				break
			}
		}

		if accept {
			chosen := candidates[chosenIdx]
			d.list.Append(d.hashKey(chosen.Transition))
			current = chosen.Solution
			currentScore = chosen.Score
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
			callback(localsearch.OptProgress[S]{
				Iter:            iter,
				AcceptanceRatio: counter.Ratio(),
				Best:            localsearch.NewSnapshot[S](best),
				BestScore:       bestScore,
			})
		}
	}

	return best, bestScore
}
