package tempering

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/paiban/localsearch"
)

type wellPoint struct{ v float64 }

func (p wellPoint) Clone() wellPoint { return wellPoint{v: p.v} }

type wellScore float64

func (s wellScore) Less(other localsearch.Score) bool { return float64(s) < other.Real() }
func (s wellScore) Real() float64                     { return float64(s) }

type wellProblem struct{ center float64 }

func (p wellProblem) RandomSolution(rng *rand.Rand) (wellPoint, localsearch.Score, error) {
	v := rng.Float64()*20 - 10
	return wellPoint{v: v}, wellScore((v - p.center) * (v - p.center)), nil
}

func (p wellProblem) Trial(current wellPoint, currentScore localsearch.Score, rng *rand.Rand) (wellPoint, struct{}, localsearch.Score) {
	next := current.v + (rng.Float64()*2 - 1)
	return wellPoint{v: next}, struct{}{}, wellScore((next - p.center) * (next - p.center))
}

func TestGeometricBetasSpansRange(t *testing.T) {
	betas, err := GeometricBetas(0.1, 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(betas) != 5 {
		t.Fatalf("expected 5 rungs, got %d", len(betas))
	}
	if math.Abs(betas[0]-0.1) > 1e-9 {
		t.Errorf("expected first rung to equal beta0, got %v", betas[0])
	}
	if math.Abs(betas[4]-10) > 1e-9 {
		t.Errorf("expected last rung to equal betaMax, got %v", betas[4])
	}
	for i := 1; i < len(betas); i++ {
		if betas[i] <= betas[i-1] {
			t.Errorf("expected strictly increasing ladder, got %v at %d <= %v at %d", betas[i], i, betas[i-1], i-1)
		}
	}
}

func TestGeometricBetasSingleRung(t *testing.T) {
	betas, err := GeometricBetas(0.5, 0.5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(betas) != 1 || betas[0] != 0.5 {
		t.Errorf("expected single rung equal to beta0, got %v", betas)
	}
}

func TestGeometricBetasRejectsBadInput(t *testing.T) {
	if _, err := GeometricBetas(0.1, 10, 0); err == nil {
		t.Errorf("expected error for r < 1")
	}
	if _, err := GeometricBetas(0, 10, 3); err == nil {
		t.Errorf("expected error for beta0 <= 0")
	}
	if _, err := GeometricBetas(10, 1, 3); err == nil {
		t.Errorf("expected error for betaMax < beta0")
	}
}

func TestNewDriverRejectsEmptyLadder(t *testing.T) {
	cfg := Config{NIter: 10, NTrials: 2, SwapFrequency: 1, Patience: 5}
	_, err := NewDriver[wellPoint, struct{}](cfg, nil, wellPoint{v: 0}, wellScore(0), rand.New(rand.NewSource(1)))
	if err == nil {
		t.Errorf("expected error for empty ladder")
	}
}

func TestDriverGlobalBestNeverWorseThanAnyReplica(t *testing.T) {
	problem := wellProblem{center: 1.5}
	betas, _ := GeometricBetas(0.01, 5, 4)
	initial, initScore, _ := problem.RandomSolution(rand.New(rand.NewSource(3)))
	cfg := Config{NIter: 150, NTrials: 3, SwapFrequency: 5, Patience: 150, TimeLimit: time.Minute}
	drv, err := NewDriver[wellPoint, struct{}](cfg, betas, initial, initScore, rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := drv.Optimize(context.Background(), problem, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, globalBestScore := drv.GlobalBest()
	for _, rep := range drv.Replicas() {
		if rep.BestScore.Less(globalBestScore) {
			t.Errorf("replica best %v is better than reported global best %v", rep.BestScore.Real(), globalBestScore.Real())
		}
	}
}

func TestSwapAcceptanceRatioIsWithinUnitInterval(t *testing.T) {
	problem := wellProblem{center: 0}
	betas, _ := GeometricBetas(0.01, 8, 6)
	initial, initScore, _ := problem.RandomSolution(rand.New(rand.NewSource(5)))
	cfg := Config{NIter: 100, NTrials: 2, SwapFrequency: 3, Patience: 100, TimeLimit: time.Minute}
	drv, err := NewDriver[wellPoint, struct{}](cfg, betas, initial, initScore, rand.New(rand.NewSource(6)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := drv.Optimize(context.Background(), problem, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ratio := drv.SwapAcceptanceRatio()
	if ratio < 0 || ratio > 1 {
		t.Errorf("swap acceptance ratio out of range: %v", ratio)
	}
}

func TestConfigValidation(t *testing.T) {
	if err := (&Config{NIter: -1, NTrials: 1, SwapFrequency: 1}).validate(); err == nil {
		t.Errorf("expected error for n_iter < 0")
	}
	if err := (&Config{NIter: 1, NTrials: 0, SwapFrequency: 1}).validate(); err == nil {
		t.Errorf("expected error for n_trials < 1")
	}
	if err := (&Config{NIter: 1, NTrials: 1, SwapFrequency: 0}).validate(); err == nil {
		t.Errorf("expected error for swap_frequency < 1")
	}
}
