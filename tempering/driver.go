package tempering

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/localsearch"
	"github.com/paiban/localsearch/internal/metrics"
	"github.com/paiban/localsearch/kernel"
	"github.com/paiban/localsearch/lserr"
	"github.com/rs/zerolog"
)

// Config configures a parallel tempering run.
type Config struct {
	NIter         int
	TimeLimit     time.Duration
	NTrials       int // n_trials for each replica's inner Metropolis step
	SwapFrequency int // attempt adjacent swaps every SwapFrequency outer iterations
	Patience      int // consecutive outer iterations with no global-best improvement; 0 disables
}

func (c *Config) validate() error {
	if c.NIter < 0 {
		return lserr.InvalidInput("n_iter must be >= 0")
	}
	if c.NTrials < 1 {
		return lserr.InvalidInput("n_trials must be >= 1")
	}
	if c.SwapFrequency < 1 {
		return lserr.InvalidInput("swap_frequency must be >= 1")
	}
	return nil
}

// Progress is emitted once per completed outer iteration.
type Progress[S localsearch.Cloner[S]] struct {
	Iter            int
	SwapAcceptance  float64
	GlobalBest      S
	GlobalBestScore localsearch.Score
}

// ProgressCallback is invoked once per outer iteration.
type ProgressCallback[S localsearch.Cloner[S]] func(Progress[S])

// Driver runs replica-exchange Monte Carlo across a fixed ladder of
// inverse temperatures (spec §4.7). It generalizes the teacher's
// IslandOptimizer: islands no longer evolve independently, they
// periodically propose swaps with their temperature neighbors.
type Driver[S localsearch.Cloner[S], T any] struct {
	cfg      Config
	replicas []*Replica[S]
	rng      *rand.Rand
	logger   zerolog.Logger
	swaps    localsearch.AcceptanceCounter
	runID    string
}

// NewDriver constructs a Driver over the given betas, one replica per
// rung, each initialized to initial/initialScore (cloned per replica).
func NewDriver[S localsearch.Cloner[S], T any](cfg Config, betas []float64, initial S, initialScore localsearch.Score, rng *rand.Rand) (*Driver[S, T], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(betas) == 0 {
		return nil, lserr.ErrEmptyLadder
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	replicas := make([]*Replica[S], len(betas))
	for i, beta := range betas {
		replicas[i] = &Replica[S]{
			Beta:         beta,
			Current:      initial.Clone(),
			CurrentScore: initialScore,
			Best:         initial.Clone(),
			BestScore:    initialScore,
			rng:          rand.New(rand.NewSource(rng.Int63())),
		}
	}
	return &Driver[S, T]{cfg: cfg, replicas: replicas, rng: rng, logger: zerolog.Nop(), runID: uuid.NewString()}, nil
}

// SetLogger attaches a logger for swap/new-best/termination debug lines.
func (d *Driver[S, T]) SetLogger(l zerolog.Logger) { d.logger = l }

// Replicas exposes the current chain state, in ladder order: index 0 holds
// the smallest beta (hottest), the last index the largest beta (coldest).
func (d *Driver[S, T]) Replicas() []*Replica[S] { return d.replicas }

// GlobalBest returns the best solution observed by any replica over the
// whole run (the supplemented accessor noted for this package).
func (d *Driver[S, T]) GlobalBest() (S, localsearch.Score) {
	best := d.replicas[0]
	for _, r := range d.replicas[1:] {
		if r.BestScore.Less(best.BestScore) {
			best = r
		}
	}
	return best.Best.Clone(), best.BestScore
}

// SwapAcceptanceRatio returns the fraction of attempted adjacent swaps
// accepted over the run so far.
func (d *Driver[S, T]) SwapAcceptanceRatio() float64 { return d.swaps.Ratio() }

// Optimize runs the replica-exchange loop to completion.
func (d *Driver[S, T]) Optimize(ctx context.Context, problem localsearch.Problem[S, T], callback ProgressCallback[S]) error {
	budget := localsearch.NewBudget(d.cfg.NIter, d.cfg.TimeLimit)
	stagnation := 0
	iter := 0
	_, prevBest := d.GlobalBest()

	for iter < d.cfg.NIter {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// 1. one Metropolis step per replica, in parallel; each replica
		// reads only its own beta, so no shared mutable state crosses
		// goroutines here.
		var wg sync.WaitGroup
		for _, rep := range d.replicas {
			wg.Add(1)
			go func(rep *Replica[S]) {
				defer wg.Done()
				beta := rep.Beta
				k, err := kernel.Metropolis(&beta)
				if err != nil {
					return
				}
				candidates := localsearch.GenerateTrials[S, T](problem, rep.Current, rep.CurrentScore, d.cfg.NTrials, rep.rng)
				trial := candidates[localsearch.BestOfBatch(candidates)]
				if !rep.CurrentScore.Less(trial.Score) || rep.rng.Float64() < k.Accept(rep.CurrentScore.Real(), trial.Score.Real()) {
					rep.Current = trial.Solution
					rep.CurrentScore = trial.Score
				}
				if rep.CurrentScore.Less(rep.BestScore) {
					rep.Best = rep.Current.Clone()
					rep.BestScore = rep.CurrentScore
				}
			}(rep)
		}
		wg.Wait()

		for i, rep := range d.replicas {
			metrics.SetBeta("tempering", d.runID, fmt.Sprintf("rung%d", i), rep.Beta)
		}

		// 2. periodic adjacent-pair swaps, alternating even/odd offsets
		// so every boundary gets a chance across successive attempts.
		if (iter+1)%d.cfg.SwapFrequency == 0 && len(d.replicas) > 1 {
			offset := 0
			if (iter/d.cfg.SwapFrequency)%2 == 1 {
				offset = 1
			}
			for i := offset; i+1 < len(d.replicas); i += 2 {
				a, b := d.replicas[i], d.replicas[i+1]
				delta := (a.Beta - b.Beta) * (b.CurrentScore.Real() - a.CurrentScore.Real())
				p := math.Min(1, math.Exp(delta))
				accept := d.rng.Float64() < p
				d.swaps.Record(accept)
				if accept {
					a.Current, b.Current = b.Current, a.Current
					a.CurrentScore, b.CurrentScore = b.CurrentScore, a.CurrentScore
				}
			}
		}

		// 3. global-best bookkeeping and stopping conditions.
		_, bestScore := d.GlobalBest()
		if bestScore.Less(prevBest) {
			stagnation = 0
			d.logger.Debug().Int("iter", iter).Float64("score", bestScore.Real()).Msg("new global best")
		} else {
			stagnation++
		}
		prevBest = bestScore

		if d.cfg.Patience > 0 && stagnation >= d.cfg.Patience {
			d.logger.Debug().Int("iter", iter).Msg("stopped: patience exhausted")
			break
		}
		if budget.Expired() {
			d.logger.Debug().Int("iter", iter).Msg("stopped: time limit reached")
			break
		}

		iter++
		if callback != nil {
			best, bestScore := d.GlobalBest()
			callback(Progress[S]{
				Iter:            iter,
				SwapAcceptance:  d.swaps.Ratio(),
				GlobalBest:      best,
				GlobalBestScore: bestScore,
			})
		}
	}

	return nil
}
