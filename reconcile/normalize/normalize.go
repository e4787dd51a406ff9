// Package normalize parses a raw supplier listing's free-text title and
// tags into structured guesses: brand, device type, service type, model
// name, part quality. It is a pure function of its input: no I/O, no
// shared state, deterministic across runs.
package normalize

import (
	"strings"

	"partsync/pkg/types"
)

// Normalize derives a NormalizedListing from a raw listing. It always
// returns a value; a guess the rules cannot make is types.Unresolved,
// never empty, so downstream code has one failure shape to check.
func Normalize(listing types.SupplierListing) types.NormalizedListing {
	haystack := buildHaystack(listing)

	n := types.NormalizedListing{
		SupplierListing:  listing,
		BrandGuess:       detectBrand(haystack),
		DeviceTypeGuess:  detectDeviceType(haystack),
		ServiceTypeGuess: detectServiceType(haystack),
		ModelNameGuess:   types.Unresolved,
		QualityGuess:     detectQuality(haystack),
	}

	n.ModelNameGuess = extractModelName(n.BrandGuess, listing.RawTitle)
	return n
}

// NormalizeAll maps a whole feed. Results keep input order for
// deterministic downstream processing.
func NormalizeAll(listings []types.SupplierListing) []types.NormalizedListing {
	out := make([]types.NormalizedListing, len(listings))
	for i, l := range listings {
		out[i] = Normalize(l)
	}
	return out
}

// buildHaystack folds title and tags into one lowercase search text.
func buildHaystack(listing types.SupplierListing) string {
	parts := make([]string, 0, len(listing.Tags)+1)
	parts = append(parts, listing.RawTitle)
	parts = append(parts, listing.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func detectBrand(haystack string) string {
	for _, rule := range brandRules {
		if matchesRule(haystack, rule.Keywords, rule.Excludes) {
			return rule.Brand
		}
	}
	return types.Unresolved
}

func detectDeviceType(haystack string) string {
	for _, rule := range deviceRules {
		if matchesRule(haystack, rule.Keywords, rule.Excludes) {
			return rule.DeviceType
		}
	}
	return types.Unresolved
}

func detectServiceType(haystack string) string {
	for _, rule := range serviceRules {
		if matchesRule(haystack, rule.Keywords, rule.Excludes) {
			return rule.ServiceType
		}
	}
	return types.Unresolved
}

// detectQuality checks premium markers before economy ones so an
// "original aftermarket pull" reads as premium, deterministically.
func detectQuality(haystack string) types.QualityTier {
	for _, w := range qualityKeywords["premium"] {
		if strings.Contains(haystack, w) {
			return types.TierPremium
		}
	}
	for _, w := range qualityKeywords["economy"] {
		if strings.Contains(haystack, w) {
			return types.TierEconomy
		}
	}
	return types.TierStandard
}

// matchesRule reports whether any keyword hits and no exclusion does.
// Exclusions run first: a "galaxy" listing never lands in the Apple bucket
// even when an "apple" tag is present.
func matchesRule(haystack string, keywords, excludes []string) bool {
	for _, ex := range excludes {
		if strings.Contains(haystack, ex) {
			return false
		}
	}
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// extractModelName pulls a model name out of the title: a brand-specific
// pattern when one exists, otherwise the generic noun-stripping fallback.
func extractModelName(brand, rawTitle string) string {
	title := stripNoise(rawTitle)

	if re, ok := modelPatterns[brand]; ok {
		if m := re.FindString(title); m != "" {
			return squeeze(strings.ToLower(m))
		}
	}
	return genericModelName(title)
}

// stripNoise removes bracketed codes and known boilerplate phrases.
func stripNoise(title string) string {
	t := strings.ToLower(title)
	t = bracketRe.ReplaceAllString(t, " ")
	for _, phrase := range noisePhrases {
		t = strings.ReplaceAll(t, phrase, " ")
	}
	return squeeze(t)
}

// genericModelName keeps whatever survives removing repair-part nouns.
// Weak by construction, so it is only the fallback.
func genericModelName(title string) string {
	tokens := strings.Fields(title)
	kept := tokens[:0]
	for _, tok := range tokens {
		trimmed := strings.Trim(tok, ",.;:-/")
		if trimmed == "" || isPartNoun(trimmed) || isTrimWord(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}
	if len(kept) == 0 {
		return types.Unresolved
	}
	return strings.Join(kept, " ")
}

func isPartNoun(tok string) bool {
	for _, n := range partNouns {
		if tok == n {
			return true
		}
	}
	return false
}

func isTrimWord(tok string) bool {
	for _, w := range fallbackTrimWords {
		if tok == w {
			return true
		}
	}
	return false
}

func squeeze(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
