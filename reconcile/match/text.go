package match

import (
	"strings"

	"github.com/xrash/smetrics"

	"partsync/pkg/types"
)

// variantWords are model-suffix words the abbreviation strategy strips so
// that "s21 ultra" and "s21" compare equal after expansion.
var variantWords = []string{"pro", "max", "ultra", "plus", "mini", "lite"}

var defaultAbbreviations = map[string]string{
	"sgs":  "galaxy s",
	"sgn":  "galaxy note",
	"gs":   "galaxy s",
	"sg":   "galaxy",
	"ip":   "iphone",
	"iph":  "iphone",
	"mb":   "macbook",
	"mbp":  "macbook pro",
	"mba":  "macbook air",
	"rm":   "redmi",
	"rmn":  "redmi note",
	"op":   "oneplus",
	"px":   "pixel",
	"tab":  "galaxy tab",
	"nt":   "note",
}

var defaultSynonyms = map[string][]string{
	"redmi":   {"redmi", "xiaomi redmi"},
	"mi":      {"mi", "xiaomi mi"},
	"galaxy":  {"galaxy", "samsung galaxy"},
	"note":    {"note", "galaxy note", "redmi note"},
	"iphone":  {"iphone", "apple iphone"},
	"ipad":    {"ipad", "apple ipad"},
	"pixel":   {"pixel", "google pixel"},
	"honor":   {"honor", "huawei honor"},
	"moto":    {"moto", "motorola moto"},
	"xperia":  {"xperia", "sony xperia"},
	"oneplus": {"oneplus", "one plus"},
}

// foldName lowercases and collapses whitespace for case-folded equality.
func foldName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// strictNormalize strips everything but letters and digits.
func strictNormalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// editSimilarity is the normalized edit-distance similarity:
// (maxLen - levenshtein) / maxLen.
func editSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 1)
	return float64(maxLen-dist) / float64(maxLen)
}

// tokenSet splits a folded name into a unique token set.
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(foldName(s)) {
		set[tok] = struct{}{}
	}
	return set
}

// overlapRatio is |common| / max(|a|, |b|).
func overlapRatio(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			common++
		}
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return float64(common) / float64(maxLen)
}

// candidateNames yields the comparable names of a model with the field tag
// recorded in matched_fields.
func candidateNames(m types.CanonicalModel) []struct{ Field, Value string } {
	names := []struct{ Field, Value string }{
		{Field: "name", Value: m.Name},
		{Field: "display_name", Value: m.DisplayName},
	}
	for _, alias := range m.Aliases {
		names = append(names, struct{ Field, Value string }{Field: "alias", Value: alias})
	}
	return names
}
