package match

import (
	"strings"

	"partsync/pkg/confidence"
	"partsync/pkg/types"
)

// abbreviationStrategy: both names pass through a fixed brand-abbreviation
// table and a variant-word stripper before the equality check.
// Confidence 0.9.
type abbreviationStrategy struct {
	abbreviations map[string]string
}

func (s *abbreviationStrategy) Method() types.MatchMethod { return types.MethodAbbreviation }

func (s *abbreviationStrategy) Match(listing types.NormalizedListing, candidates []types.CanonicalModel) (types.MatchCandidate, bool) {
	guess := s.expand(listing.ModelNameGuess)
	if guess == "" || listing.ModelNameGuess == types.Unresolved {
		return types.MatchCandidate{}, false
	}
	for _, m := range candidates {
		for _, name := range candidateNames(m) {
			if s.expand(name.Value) == guess {
				return types.MatchCandidate{
					ModelID:       m.ModelID,
					BrandID:       m.BrandID,
					Confidence:    confidence.AbbreviationConfidence,
					Method:        s.Method(),
					MatchedFields: []string{name.Field},
				}, true
			}
		}
	}
	return types.MatchCandidate{}, false
}

// expand rewrites abbreviation tokens and drops variant words, then
// strictly normalizes the result for comparison.
func (s *abbreviationStrategy) expand(name string) string {
	tokens := strings.Fields(foldName(name))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if full, ok := s.abbreviations[tok]; ok {
			tok = full
		}
		if isVariantWord(tok) {
			continue
		}
		out = append(out, tok)
	}
	return strictNormalize(strings.Join(out, " "))
}

func isVariantWord(tok string) bool {
	for _, v := range variantWords {
		if tok == v {
			return true
		}
	}
	return false
}

// synonymStrategy: each side expands into its synonym set from the fixed
// brand-synonym table; any pairwise intersection is a match.
// Confidence 0.85.
type synonymStrategy struct {
	synonyms map[string][]string
}

func (s *synonymStrategy) Method() types.MatchMethod { return types.MethodSynonym }

func (s *synonymStrategy) Match(listing types.NormalizedListing, candidates []types.CanonicalModel) (types.MatchCandidate, bool) {
	guessSet := s.expandSet(listing.ModelNameGuess)
	if len(guessSet) == 0 || listing.ModelNameGuess == types.Unresolved {
		return types.MatchCandidate{}, false
	}
	for _, m := range candidates {
		for _, name := range candidateNames(m) {
			if intersects(guessSet, s.expandSet(name.Value)) {
				return types.MatchCandidate{
					ModelID:       m.ModelID,
					BrandID:       m.BrandID,
					Confidence:    confidence.SynonymConfidence,
					Method:        s.Method(),
					MatchedFields: []string{name.Field},
				}, true
			}
		}
	}
	return types.MatchCandidate{}, false
}

// expandSet produces every synonym rewrite of a name. The name itself is
// always a member, so plain equality still intersects.
func (s *synonymStrategy) expandSet(name string) map[string]struct{} {
	folded := foldName(name)
	if folded == "" {
		return nil
	}
	set := map[string]struct{}{strictNormalize(folded): {}}
	for base, variants := range s.synonyms {
		if !strings.Contains(folded, base) {
			continue
		}
		for _, v := range variants {
			set[strictNormalize(strings.Replace(folded, base, v, 1))] = struct{}{}
		}
	}
	return set
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
