package types

// CanonicalModel is an authoritative device-model record in the internal
// catalog. Read-only within a run; the catalog owner supplies the snapshot.
type CanonicalModel struct {
	ModelID     string   `json:"model_id"`
	BrandID     string   `json:"brand_id"`
	DeviceType  string   `json:"device_type"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Aliases     []string `json:"aliases,omitempty"`
}

// MatchMethod tags which strategy produced a candidate.
type MatchMethod string

const (
	MethodExact        MatchMethod = "exact"
	MethodNormalized   MatchMethod = "normalized"
	MethodFuzzy        MatchMethod = "fuzzy"
	MethodAbbreviation MatchMethod = "abbreviation"
	MethodSynonym      MatchMethod = "synonym"
	MethodPartial      MatchMethod = "partial_overlap"
)

// MatchCandidate is one strategy's proposal for a listing. Transient:
// produced and consumed within a single listing's resolution.
type MatchCandidate struct {
	ModelID       string      `json:"model_id"`
	BrandID       string      `json:"brand_id"`
	Confidence    float64     `json:"confidence"`
	Method        MatchMethod `json:"method"`
	MatchedFields []string    `json:"matched_fields,omitempty"`
}
