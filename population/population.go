// Package population implements population annealing (spec §4.6): a
// fixed-size population of solutions is jointly annealed, each outer
// iteration running one simulated-annealing step per member followed by
// Boltzmann-weighted resampling.
package population

import "github.com/paiban/localsearch"

// Member is one (solution, score) pair in the population.
type Member[S localsearch.Cloner[S]] struct {
	Solution S
	Score    localsearch.Score
}

// Clone returns a deep copy of the member.
func (m Member[S]) Clone() Member[S] {
	return Member[S]{Solution: m.Solution.Clone(), Score: m.Score}
}

// Population is a fixed-size multiset of members. Its length never
// changes under resampling (spec §3 invariant 6).
type Population[S localsearch.Cloner[S]] struct {
	Members []Member[S]
}

// Size returns the number of members.
func (p Population[S]) Size() int { return len(p.Members) }
