// Package match implements the ordered chain of matching strategies that
// resolve a normalized listing against catalog candidates.
package match

import (
	"partsync/pkg/confidence"
	"partsync/pkg/types"
)

// Strategy proposes at most one catalog candidate for a listing, with a
// confidence score under its fixed contract.
type Strategy interface {
	// Method returns the fixed tag recorded in the ledger for this strategy.
	Method() types.MatchMethod

	// Match consumes a normalized listing and the index candidates for its
	// brand/device type. ok is false when the strategy has no proposal.
	Match(listing types.NormalizedListing, candidates []types.CanonicalModel) (types.MatchCandidate, bool)
}

// Config holds the tunable thresholds and lookup tables. Tables are loaded
// once at startup and treated as immutable afterwards.
type Config struct {
	FuzzyThreshold   float64
	PartialThreshold float64
	Abbreviations    map[string]string
	Synonyms         map[string][]string
}

// DefaultConfig returns the shipped thresholds and tables.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold:   0.8,
		PartialThreshold: 0.6,
		Abbreviations:    defaultAbbreviations,
		Synonyms:         defaultSynonyms,
	}
}

// Chain is the ordered, immutable strategy list built at startup. Every
// strategy runs unconditionally: a lower-priority rule occasionally finds
// a better candidate than a higher-priority rule's mediocre one, and
// confidence, not ordering, decides.
type Chain struct {
	strategies []Strategy
}

// NewChain builds the full chain in priority order.
func NewChain(cfg Config) *Chain {
	return &Chain{
		strategies: []Strategy{
			&exactStrategy{},
			&normalizedStrategy{},
			&fuzzyStrategy{threshold: cfg.FuzzyThreshold},
			&abbreviationStrategy{abbreviations: cfg.Abbreviations},
			&synonymStrategy{synonyms: cfg.Synonyms},
			&partialStrategy{threshold: cfg.PartialThreshold},
		},
	}
}

// Strategies exposes the chain order for arbiter tie-breaking.
func (c *Chain) Strategies() []Strategy {
	return c.strategies
}

// Priority returns the chain position of a method, lower is earlier.
// Unknown methods sort last.
func (c *Chain) Priority(method types.MatchMethod) int {
	for i, s := range c.strategies {
		if s.Method() == method {
			return i
		}
	}
	return len(c.strategies)
}

// Collect runs every strategy and returns all proposals, clamped into
// [0,1]. The slice order follows chain priority.
func (c *Chain) Collect(listing types.NormalizedListing, candidates []types.CanonicalModel) []types.MatchCandidate {
	if len(candidates) == 0 {
		return nil
	}
	var out []types.MatchCandidate
	for _, s := range c.strategies {
		if cand, ok := s.Match(listing, candidates); ok {
			cand.Confidence = confidence.Clamp(cand.Confidence)
			out = append(out, cand)
		}
	}
	return out
}
