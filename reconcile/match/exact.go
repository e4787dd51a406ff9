package match

import (
	"partsync/pkg/confidence"
	"partsync/pkg/types"
)

// exactStrategy: case-folded equality of the model-name guess against a
// candidate's name, display name, or alias. Confidence 1.0.
type exactStrategy struct{}

func (s *exactStrategy) Method() types.MatchMethod { return types.MethodExact }

func (s *exactStrategy) Match(listing types.NormalizedListing, candidates []types.CanonicalModel) (types.MatchCandidate, bool) {
	guess := foldName(listing.ModelNameGuess)
	if guess == "" || listing.ModelNameGuess == types.Unresolved {
		return types.MatchCandidate{}, false
	}
	for _, m := range candidates {
		for _, name := range candidateNames(m) {
			if foldName(name.Value) == guess {
				return types.MatchCandidate{
					ModelID:       m.ModelID,
					BrandID:       m.BrandID,
					Confidence:    confidence.ExactConfidence,
					Method:        s.Method(),
					MatchedFields: []string{name.Field},
				}, true
			}
		}
	}
	return types.MatchCandidate{}, false
}

// normalizedStrategy: equality after stripping non-alphanumerics and
// whitespace from both sides. Confidence 0.95.
type normalizedStrategy struct{}

func (s *normalizedStrategy) Method() types.MatchMethod { return types.MethodNormalized }

func (s *normalizedStrategy) Match(listing types.NormalizedListing, candidates []types.CanonicalModel) (types.MatchCandidate, bool) {
	guess := strictNormalize(listing.ModelNameGuess)
	if guess == "" || listing.ModelNameGuess == types.Unresolved {
		return types.MatchCandidate{}, false
	}
	for _, m := range candidates {
		for _, name := range candidateNames(m) {
			if strictNormalize(name.Value) == guess {
				return types.MatchCandidate{
					ModelID:       m.ModelID,
					BrandID:       m.BrandID,
					Confidence:    confidence.NormalizedConfidence,
					Method:        s.Method(),
					MatchedFields: []string{name.Field},
				}, true
			}
		}
	}
	return types.MatchCandidate{}, false
}
