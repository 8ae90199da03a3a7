// Package tempering implements parallel tempering (replica exchange, spec
// §4.7): several independent Metropolis chains run at different inverse
// temperatures, with periodic swap attempts between adjacent rungs of the
// ladder. It generalizes the teacher's island-model parallel optimizer from
// independent islands to islands that exchange state by temperature.
package tempering

import (
	"math"
	"math/rand"

	"github.com/paiban/localsearch"
	"github.com/paiban/localsearch/lserr"
)

// Replica is one chain in the temperature ladder.
type Replica[S localsearch.Cloner[S]] struct {
	Beta         float64
	Current      S
	CurrentScore localsearch.Score
	Best         S
	BestScore    localsearch.Score
	rng          *rand.Rand
}

// GeometricBetas builds an r-rung ladder with betas spaced geometrically
// from beta0 up to betaMax. Beta is inverse temperature, so beta0 (the
// smallest beta) is the hottest rung and betaMax the coldest. r must be
// >= 1.
func GeometricBetas(beta0, betaMax float64, r int) ([]float64, error) {
	if r < 1 {
		return nil, lserr.InvalidInput("ladder size must be >= 1")
	}
	if beta0 <= 0 || betaMax <= 0 {
		return nil, lserr.InvalidInput("beta0 and betaMax must be > 0")
	}
	if betaMax < beta0 {
		return nil, lserr.InvalidInput("betaMax must be >= beta0")
	}
	betas := make([]float64, r)
	if r == 1 {
		betas[0] = beta0
		return betas, nil
	}
	ratio := betaMax / beta0
	for i := 0; i < r; i++ {
		frac := float64(i) / float64(r-1)
		betas[i] = beta0 * math.Pow(ratio, frac)
	}
	return betas, nil
}
