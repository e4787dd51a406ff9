// Package confidence provides confidence score math for match arbitration.
package confidence

// Clamp ensures a confidence is in valid range [0, 1].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// AboveThreshold checks if a confidence meets the minimum requirement.
// The threshold itself passes: a candidate at exactly the auto-accept bar
// is auto-accepted.
func AboveThreshold(score, threshold float64) bool {
	return score >= threshold
}

// Mean averages a set of scores; empty input yields 0.
func Mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// Strategy contract constants. Each matching strategy reports confidence
// at or derived from one of these levels.
const (
	ExactConfidence        = 1.0
	NormalizedConfidence   = 0.95
	AbbreviationConfidence = 0.9
	SynonymConfidence      = 0.85
	PartialDiscount        = 0.8
)
