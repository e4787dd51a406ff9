// Package arbiter selects one winner from the full candidate set a
// listing collected, applying tie-break and threshold policy.
package arbiter

import (
	"partsync/pkg/confidence"
	"partsync/pkg/types"
	"partsync/reconcile/match"
)

// Outcome classifies an arbitration result.
type Outcome string

const (
	// OutcomeApplied: candidate at or above the auto-accept threshold,
	// flows into the merge stage.
	OutcomeApplied Outcome = "applied"
	// OutcomePending: best candidate under the threshold; recorded in the
	// ledger for review, excluded from merge.
	OutcomePending Outcome = "pending"
	// OutcomeUnmapped: no strategy produced anything.
	OutcomeUnmapped Outcome = "unmapped"
)

// Decision is the arbiter's output for one listing.
type Decision struct {
	Outcome   Outcome
	Candidate *types.MatchCandidate
	// TieBroken is set when two candidates shared the top confidence and
	// the priority/brand tie-break resolved it. Logged, never an error.
	TieBroken bool
}

// Arbiter applies the selection policy over a chain's candidates.
type Arbiter struct {
	chain     *match.Chain
	threshold float64
}

// New builds an arbiter bound to a chain (for priority tie-breaks) and an
// auto-accept threshold.
func New(chain *match.Chain, autoAcceptThreshold float64) *Arbiter {
	return &Arbiter{chain: chain, threshold: autoAcceptThreshold}
}

// Threshold returns the configured auto-accept bar.
func (a *Arbiter) Threshold() float64 {
	return a.threshold
}

// Decide picks the strictly highest-confidence candidate. On an exact tie
// it prefers, in order: the strategy earlier in the chain, then the
// candidate whose model brand equals the listing's brand guess.
func (a *Arbiter) Decide(listing types.NormalizedListing, candidates []types.MatchCandidate) Decision {
	if len(candidates) == 0 {
		return Decision{Outcome: OutcomeUnmapped}
	}

	best := candidates[0]
	tied := false
	for _, c := range candidates[1:] {
		switch {
		case c.Confidence > best.Confidence:
			best = c
			tied = false
		case c.Confidence == best.Confidence && c.ModelID != best.ModelID:
			tied = true
			if a.breaksTie(listing, c, best) {
				best = c
			}
		}
	}

	out := Decision{Candidate: &best, TieBroken: tied}
	if confidence.AboveThreshold(best.Confidence, a.threshold) {
		out.Outcome = OutcomeApplied
	} else {
		out.Outcome = OutcomePending
	}
	return out
}

// breaksTie reports whether challenger should replace incumbent at equal
// confidence.
func (a *Arbiter) breaksTie(listing types.NormalizedListing, challenger, incumbent types.MatchCandidate) bool {
	cp, ip := a.chain.Priority(challenger.Method), a.chain.Priority(incumbent.Method)
	if cp != ip {
		return cp < ip
	}
	cb := challenger.BrandID == listing.BrandGuess
	ib := incumbent.BrandID == listing.BrandGuess
	return cb && !ib
}
