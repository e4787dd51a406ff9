package match

import (
	"partsync/pkg/confidence"
	"partsync/pkg/types"
)

// partialStrategy: token-set overlap ratio, accepted at or above the
// threshold (default 0.6). Confidence is ratio x 0.8 — partial overlap is
// a weaker signal than a fuzzy match of equal raw ratio, so it is always
// discounted.
type partialStrategy struct {
	threshold float64
}

func (s *partialStrategy) Method() types.MatchMethod { return types.MethodPartial }

func (s *partialStrategy) Match(listing types.NormalizedListing, candidates []types.CanonicalModel) (types.MatchCandidate, bool) {
	guessTokens := tokenSet(listing.ModelNameGuess)
	if len(guessTokens) == 0 || listing.ModelNameGuess == types.Unresolved {
		return types.MatchCandidate{}, false
	}

	best := types.MatchCandidate{}
	bestRatio := 0.0
	for _, m := range candidates {
		for _, name := range candidateNames(m) {
			ratio := overlapRatio(guessTokens, tokenSet(name.Value))
			if ratio > bestRatio {
				bestRatio = ratio
				best = types.MatchCandidate{
					ModelID:       m.ModelID,
					BrandID:       m.BrandID,
					Confidence:    ratio * confidence.PartialDiscount,
					Method:        s.Method(),
					MatchedFields: []string{name.Field},
				}
			}
		}
	}
	if bestRatio < s.threshold {
		return types.MatchCandidate{}, false
	}
	return best, true
}
