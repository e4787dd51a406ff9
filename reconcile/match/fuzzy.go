package match

import (
	"partsync/pkg/types"
)

// fuzzyStrategy: normalized edit-distance similarity over strictly
// normalized names. Accepted at or above the threshold (default 0.8);
// confidence equals the similarity itself.
type fuzzyStrategy struct {
	threshold float64
}

func (s *fuzzyStrategy) Method() types.MatchMethod { return types.MethodFuzzy }

func (s *fuzzyStrategy) Match(listing types.NormalizedListing, candidates []types.CanonicalModel) (types.MatchCandidate, bool) {
	guess := strictNormalize(listing.ModelNameGuess)
	if guess == "" || listing.ModelNameGuess == types.Unresolved {
		return types.MatchCandidate{}, false
	}

	best := types.MatchCandidate{}
	bestSim := 0.0
	for _, m := range candidates {
		for _, name := range candidateNames(m) {
			sim := editSimilarity(guess, strictNormalize(name.Value))
			if sim > bestSim {
				bestSim = sim
				best = types.MatchCandidate{
					ModelID:       m.ModelID,
					BrandID:       m.BrandID,
					Confidence:    sim,
					Method:        s.Method(),
					MatchedFields: []string{name.Field},
				}
			}
		}
	}
	if bestSim < s.threshold {
		return types.MatchCandidate{}, false
	}
	return best, true
}
