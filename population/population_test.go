package population

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/paiban/localsearch"
)

type coord struct{ v float64 }

func (c coord) Clone() coord { return coord{v: c.v} }

type coordScore float64

func (s coordScore) Less(other localsearch.Score) bool { return float64(s) < other.Real() }
func (s coordScore) Real() float64                     { return float64(s) }

type bowlProblem struct{ center float64 }

func (p bowlProblem) RandomSolution(rng *rand.Rand) (coord, localsearch.Score, error) {
	v := rng.Float64()*20 - 10
	return coord{v: v}, coordScore((v - p.center) * (v - p.center)), nil
}

func (p bowlProblem) Trial(current coord, currentScore localsearch.Score, rng *rand.Rand) (coord, struct{}, localsearch.Score) {
	next := current.v + (rng.Float64()*2 - 1)
	return coord{v: next}, struct{}{}, coordScore((next - p.center) * (next - p.center))
}

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}
	return w
}

func TestRandomIndexPreservesLength(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	indices := RandomIndex(uniformWeights(5), rng)
	if len(indices) != 5 {
		t.Errorf("expected 5 resampled indices, got %d", len(indices))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= 5 {
			t.Errorf("index %d out of range", idx)
		}
	}
}

func TestSystematicResamplePreservesLength(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	indices := SystematicResample(uniformWeights(5), rng)
	if len(indices) != 5 {
		t.Errorf("expected 5 resampled indices, got %d", len(indices))
	}
}

func TestResampleVisitsEachMemberWithExpectedFrequency(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := 4
	weights := uniformWeights(m)
	counts := make([]int, m)
	trials := 20000
	for i := 0; i < trials; i++ {
		for _, idx := range SystematicResample(weights, rng) {
			counts[idx]++
		}
	}
	expected := float64(trials*m) / float64(m)
	for i, c := range counts {
		if math.Abs(float64(c)-expected)/expected > 0.1 {
			t.Errorf("member %d visited %d times, expected ~%v (uniform weights)", i, c, expected)
		}
	}
}

func TestDriverRejectsEmptyPopulation(t *testing.T) {
	cfg := Config{NIter: 10, SATrials: 2, InitialBeta: 1, Gamma: 0.9, Patience: 5, TimeLimit: time.Minute}
	drv, err := NewDriver[coord, struct{}](cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = drv.Optimize(context.Background(), bowlProblem{center: 0}, Population[coord]{}, nil)
	if err == nil {
		t.Errorf("expected error for empty population")
	}
}

func TestDriverImprovesTowardCenter(t *testing.T) {
	problem := bowlProblem{center: 3}
	rng := rand.New(rand.NewSource(11))
	members := make([]Member[coord], 10)
	worstScore := 0.0
	for i := range members {
		sol, score, _ := problem.RandomSolution(rng)
		members[i] = Member[coord]{Solution: sol, Score: score}
		if score.Real() > worstScore {
			worstScore = score.Real()
		}
	}
	cfg := Config{NIter: 200, SATrials: 4, InitialBeta: 0.01, Gamma: 0.97, Patience: 200, TimeLimit: time.Minute}
	drv, err := NewDriver[coord, struct{}](cfg, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	best, err := drv.Optimize(context.Background(), problem, Population[coord]{Members: members}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.Score.Real() >= worstScore {
		t.Errorf("expected global best (%v) to improve on the worst starting member (%v)", best.Score.Real(), worstScore)
	}
}

func TestConfigValidation(t *testing.T) {
	if _, err := NewDriver[coord, struct{}](Config{SATrials: 0, InitialBeta: 1, Gamma: 1}, nil); err == nil {
		t.Errorf("expected error for sa_trials < 1")
	}
	if _, err := NewDriver[coord, struct{}](Config{SATrials: 1, InitialBeta: 0, Gamma: 1}, nil); err == nil {
		t.Errorf("expected error for initial beta <= 0")
	}
	if _, err := NewDriver[coord, struct{}](Config{SATrials: 1, InitialBeta: 1, Gamma: 0}, nil); err == nil {
		t.Errorf("expected error for gamma <= 0")
	}
	if _, err := NewDriver[coord, struct{}](Config{SATrials: 1, InitialBeta: 1, Gamma: 1.5}, nil); err == nil {
		t.Errorf("expected error for gamma > 1")
	}
}
