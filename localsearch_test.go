package localsearch

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/paiban/localsearch/kernel"
)

type point struct{ v float64 }

func (p point) Clone() point { return point{v: p.v} }

type scalarScore float64

func (s scalarScore) Less(other Score) bool { return float64(s) < other.Real() }
func (s scalarScore) Real() float64         { return float64(s) }

type shrinker struct{}

func (shrinker) RandomSolution(rng *rand.Rand) (point, Score, error) {
	v := rng.Float64() * 10
	return point{v: v}, scalarScore(v * v), nil
}

func (shrinker) Trial(current point, currentScore Score, rng *rand.Rand) (point, struct{}, Score) {
	next := current.v + (rng.Float64()*2 - 1)
	return point{v: next}, struct{}{}, scalarScore(next * next)
}

func TestRunZeroIterationsReturnsInitialUnchanged(t *testing.T) {
	problem := shrinker{}
	initial := &Initial[point]{Solution: point{v: 5}, Score: scalarScore(25)}
	cfg := Config{NIter: 0, NTrials: 1, Patience: 1}
	called := false
	best, bestScore, err := RunWithCallback[point, struct{}](context.Background(), problem, initial, cfg, kernel.Greedy(), nil, rand.New(rand.NewSource(1)), func(OptProgress[point]) {
		called = true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.v != 5 || bestScore.Real() != 25 {
		t.Errorf("expected unchanged initial, got %v/%v", best, bestScore.Real())
	}
	if called {
		t.Errorf("callback must not be invoked when n_iter is 0")
	}
}

func TestRunGreedyIsMonotoneNonIncreasing(t *testing.T) {
	problem := shrinker{}
	initial := &Initial[point]{Solution: point{v: 9}, Score: scalarScore(81)}
	cfg := Config{NIter: 200, NTrials: 8, Patience: 200, TimeLimit: time.Minute}
	var scores []float64
	_, bestScore, err := RunWithCallback[point, struct{}](context.Background(), problem, initial, cfg, kernel.Greedy(), nil, rand.New(rand.NewSource(2)), func(p OptProgress[point]) {
		scores = append(scores, p.BestScore.Real())
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[i-1] {
			t.Fatalf("best score increased at step %d: %v -> %v", i, scores[i-1], scores[i])
		}
	}
	if bestScore.Real() >= 81 {
		t.Errorf("expected improvement, got %v", bestScore.Real())
	}
}

func TestRunPatienceOneStopsAfterFirstNonImprovement(t *testing.T) {
	problem := shrinker{}
	initial := &Initial[point]{Solution: point{v: 0}, Score: scalarScore(0)}
	cfg := Config{NIter: 1000, NTrials: 1, Patience: 1, TimeLimit: time.Minute}
	iters := 0
	_, _, err := RunWithCallback[point, struct{}](context.Background(), problem, initial, cfg, kernel.Greedy(), nil, rand.New(rand.NewSource(3)), func(OptProgress[point]) {
		iters++
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iters > 1 {
		t.Errorf("expected at most one improving iteration before stopping, got %d", iters)
	}
}

func TestAcceptanceCounterRatio(t *testing.T) {
	var c AcceptanceCounter
	if c.Ratio() != 0 {
		t.Errorf("empty counter ratio should be 0, got %v", c.Ratio())
	}
	c.Record(true)
	c.Record(true)
	c.Record(false)
	if got := c.Ratio(); got < 0.666 || got > 0.667 {
		t.Errorf("expected ratio ~0.667, got %v", got)
	}
}

func TestBestOfBatchPicksLowestScoreLowestIndexOnTie(t *testing.T) {
	candidates := []Candidate[point, struct{}]{
		{Index: 0, Score: scalarScore(5)},
		{Index: 1, Score: scalarScore(2)},
		{Index: 2, Score: scalarScore(2)},
	}
	idx := BestOfBatch(candidates)
	if idx != 1 {
		t.Errorf("expected index 1 (first minimum), got %d", idx)
	}
}

func TestGenerateTrialsIsDeterministicForFixedSeed(t *testing.T) {
	problem := shrinker{}
	run := func() []float64 {
		rng := rand.New(rand.NewSource(99))
		candidates := GenerateTrials[point, struct{}](problem, point{v: 3}, scalarScore(9), 5, rng)
		scores := make([]float64, len(candidates))
		for i, c := range candidates {
			scores[i] = c.Score.Real()
		}
		return scores
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("candidate %d differs across runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestBudgetIterationsExhausted(t *testing.T) {
	b := NewBudget(3, 0)
	if b.IterationsExhausted(2) {
		t.Errorf("2 iterations should not exhaust a budget of 3")
	}
	if !b.IterationsExhausted(3) {
		t.Errorf("3 iterations should exhaust a budget of 3")
	}
}
