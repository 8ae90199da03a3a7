package population

import (
	"context"
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

// Config configures a population annealing run.
type Config struct {
	NIter       int           // outer (annealing) iterations
	TimeLimit   time.Duration
	SATrials    int     // n_trials for each member's inner SA step
	InitialBeta float64 // > 0
	Gamma       float64 // cooling rate, beta <- beta/gamma each outer iteration, in (0,1]
	Patience    int     // consecutive non-improving outer iterations before early exit; 0 disables
	Resample    ResampleFunc
}

func (c *Config) validate() error {
	if c.NIter < 0 {
		return lserr.InvalidInput("n_iter must be >= 0")
	}
	if c.SATrials < 1 {
		return lserr.InvalidInput("sa_trials must be >= 1")
	}
	if c.InitialBeta <= 0 {
		return lserr.InvalidInput("initial beta must be > 0")
	}
	if c.Gamma <= 0 || c.Gamma > 1 {
		return lserr.InvalidInput("gamma must be in (0,1]")
	}
	if c.Resample == nil {
		c.Resample = RandomIndex
	}
	return nil
}

// Progress is emitted once per completed outer iteration.
type Progress[S localsearch.Cloner[S]] struct {
	Iter       int
	Beta       float64
	GlobalBest Member[S]
}

// ProgressCallback is invoked once per outer iteration.
type ProgressCallback[S localsearch.Cloner[S]] func(Progress[S])

// Driver runs population annealing (spec §4.6).
type Driver[S localsearch.Cloner[S], T any] struct {
	cfg    Config
	beta   float64
	rng    *rand.Rand
	logger zerolog.Logger
	runID  string
}

// NewDriver constructs a population annealing driver.
func NewDriver[S localsearch.Cloner[S], T any](cfg Config, rng *rand.Rand) (*Driver[S, T], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Driver[S, T]{cfg: cfg, beta: cfg.InitialBeta, rng: rng, logger: zerolog.Nop(), runID: uuid.NewString()}, nil
}

// SetLogger attaches a logger for new-best/termination debug lines.
func (d *Driver[S, T]) SetLogger(l zerolog.Logger) { d.logger = l }

// Beta returns the current inverse temperature.
func (d *Driver[S, T]) Beta() float64 { return d.beta }

// Optimize runs population annealing to completion, returning the best
// member observed across the whole run.
func (d *Driver[S, T]) Optimize(ctx context.Context, problem localsearch.Problem[S, T], pop Population[S], callback ProgressCallback[S]) (Member[S], error) {
	if pop.Size() == 0 {
		return Member[S]{}, lserr.ErrEmptyPopulation
	}

	budget := localsearch.NewBudget(d.cfg.NIter, d.cfg.TimeLimit)
	m := pop.Size()
	members := make([]Member[S], m)
	copy(members, pop.Members)

	globalBest := members[0].Clone()
	for _, mem := range members[1:] {
		if mem.Score.Less(globalBest.Score) {
			globalBest = mem.Clone()
		}
	}

	stagnation := 0
	iter := 0

	for iter < d.cfg.NIter {
		select {
		case <-ctx.Done():
			return globalBest, nil
		default:
		}

		// 1. one SA step per member, in parallel.
		k, err := kernel.Metropolis(&d.beta)
		if err != nil {
			return globalBest, err
		}
		var wg sync.WaitGroup
		for i := range members {
			wg.Add(1)
			seed := d.rng.Int63()
			go func(i int, seed int64) {
				defer wg.Done()
				memberRNG := rand.New(rand.NewSource(seed))
				cur := members[i]
				candidates := localsearch.GenerateTrials[S, T](problem, cur.Solution, cur.Score, d.cfg.SATrials, memberRNG)
				trial := candidates[localsearch.BestOfBatch(candidates)]
				if !cur.Score.Less(trial.Score) || memberRNG.Float64() < k.Accept(cur.Score.Real(), trial.Score.Real()) {
					members[i] = Member[S]{Solution: trial.Solution, Score: trial.Score}
				}
			}(i, seed)
		}
		wg.Wait()

		// 2. cool.
		d.beta /= d.cfg.Gamma
		metrics.SetBeta("population", d.runID, "", d.beta)

		// 3. Boltzmann weights, numerically stabilized by subtracting
		// the batch minimum.
		minScore := members[0].Score.Real()
		for _, mem := range members[1:] {
			if v := mem.Score.Real(); v < minScore {
				minScore = v
			}
		}
		weights := make([]float64, m)
		sum := 0.0
		for i, mem := range members {
			w := math.Exp(-d.beta * (mem.Score.Real() - minScore))
			weights[i] = w
			sum += w
		}
		if sum <= 0 {
			for i := range weights {
				weights[i] = 1
			}
		} else {
			for i := range weights {
				weights[i] /= sum
			}
		}

		// 4. resample, rebuilding the population by cloning selected
		// members (population size is invariant, spec §3 invariant 6).
		indices := d.cfg.Resample(weights, d.rng)
		next := make([]Member[S], m)
		for i, idx := range indices {
			next[i] = members[idx].Clone()
		}
		members = next

		// 5. update global best across the resampled population. a member
		// holding the best score can still be dropped by resampling and
		// missed here until it resurfaces (or stays lost) in a later round.
		improved := false
		for _, mem := range members {
			if mem.Score.Less(globalBest.Score) {
				globalBest = mem.Clone()
				improved = true
			}
		}
		if improved {
			stagnation = 0
			d.logger.Debug().Int("iter", iter).Float64("score", globalBest.Score.Real()).Msg("new global best")
		} else {
			stagnation++
		}

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
			callback(Progress[S]{Iter: iter, Beta: d.beta, GlobalBest: globalBest.Clone()})
		}
	}

	return globalBest, nil
}
