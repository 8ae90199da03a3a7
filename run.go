package localsearch

import (
	"context"
	"math/rand"

	"github.com/paiban/localsearch/internal/metrics"
	"github.com/paiban/localsearch/kernel"
)

// Initial carries a caller-supplied starting point for Run/RunWithCallback,
// pairing a solution with the score it scored to (the façade has no way to
// derive a Score on its own: scoring is the user's concern, exercised
// through RandomSolution and Trial). A nil *Initial tells Run to call
// problem.RandomSolution instead (spec §4.8 step 1).
type Initial[S any] struct {
	Solution S
	Score    Score
}

// Run implements the façade of spec §4.8: acquire-or-accept an initial
// solution, preprocess, drive, postprocess, return the best pair found.
func Run[S Cloner[S], T any](ctx context.Context, problem Problem[S, T], initial *Initial[S], cfg Config, k kernel.Kernel, hook kernel.PostHook, rng *rand.Rand) (S, Score, error) {
	return RunWithCallback[S, T](ctx, problem, initial, cfg, k, hook, rng, nil)
}

// RunWithCallback is Run with a caller-supplied progress callback.
func RunWithCallback[S Cloner[S], T any](ctx context.Context, problem Problem[S, T], initial *Initial[S], cfg Config, k kernel.Kernel, hook kernel.PostHook, rng *rand.Rand, callback ProgressCallback[S]) (S, Score, error) {
	var zero S
	runID, logger := runLogger()

	metrics.RunStarted()
	defer metrics.RunFinished()

	var sol S
	var score Score
	if initial != nil {
		sol, score = initial.Solution, initial.Score
	} else {
		var err error
		sol, score, err = problem.RandomSolution(rng)
		if err != nil {
			return zero, nil, ModelError(err)
		}
	}

	if pre, ok := any(problem).(Preprocessor[S]); ok {
		var err error
		sol, score, err = pre.Preprocess(sol, score)
		if err != nil {
			return zero, nil, ModelError(err)
		}
	}

	driver, err := NewDriver[S, T](cfg, k, hook, rng)
	if err != nil {
		return zero, nil, err
	}
	driver.SetLogger(logger)

	logger.Info().Int("n_iter", cfg.NIter).Int("n_trials", cfg.NTrials).Float64("initial_score", score.Real()).Msg("starting optimization")

	instrumented := func(p OptProgress[S]) {
		metrics.RecordIteration("driver", runID, p.AcceptanceRatio, p.BestScore.Real())
		if callback != nil {
			callback(p)
		}
	}

	best, bestScore := driver.Optimize(ctx, problem, sol, score, instrumented)

	if post, ok := any(problem).(Postprocessor[S]); ok {
		best, bestScore = post.Postprocess(best, bestScore)
	}

	logger.Info().Float64("best_score", bestScore.Real()).Msg("optimization finished")

	return best, bestScore, nil
}
