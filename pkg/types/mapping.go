package types

import (
	"time"

	"github.com/google/uuid"
)

// MappingRecord is one append-only ledger entry: the decision taken for a
// listing in a given run. A human review only ever adds ReviewedBy/Approved;
// the original decision fields are never overwritten.
type MappingRecord struct {
	ID                uuid.UUID   `json:"id"`
	RunID             uuid.UUID   `json:"run_id"`
	SupplierListingID string      `json:"supplier_listing_id"`
	Brand             string      `json:"brand"`
	ModelID           *string     `json:"model_id"` // nil when unmapped
	Confidence        float64     `json:"confidence"`
	Method            MatchMethod `json:"method"`
	MappedAt          time.Time   `json:"mapped_at"`
	ReviewedBy        *string     `json:"reviewed_by,omitempty"`
	Approved          *bool       `json:"approved,omitempty"`
}

// Mapped reports whether the record carries an applied model decision.
func (r MappingRecord) Mapped() bool {
	return r.ModelID != nil
}

// Pending reports whether the record still awaits human review.
func (r MappingRecord) Pending() bool {
	return r.Approved == nil
}

// UnmappedReason codes for the operator triage report.
type UnmappedReason string

const (
	ReasonNoCandidate         UnmappedReason = "no_candidate_found"
	ReasonCatalogUnresolvable UnmappedReason = "catalog_unresolvable"
	ReasonLowConfidence       UnmappedReason = "low_confidence"
)

// UnmappedListing is one row of the unmapped report.
type UnmappedListing struct {
	ListingID        string         `json:"listing_id"`
	BrandGuess       string         `json:"brand_guess"`
	DeviceTypeGuess  string         `json:"device_type_guess"`
	ServiceTypeGuess string         `json:"service_type_guess"`
	ModelNameGuess   string         `json:"model_name_guess"`
	Reason           UnmappedReason `json:"reason"`
	BestConfidence   float64        `json:"best_confidence,omitempty"`
}

// QualityReport aggregates ledger state for the human review queue.
type QualityReport struct {
	TotalMappings  int                 `json:"total_mappings"`
	MeanConfidence float64             `json:"mean_confidence"`
	ByMethod       map[MatchMethod]int `json:"by_method"`
	ByBrand        map[string]int      `json:"by_brand"`
	LowConfidence  []MappingRecord     `json:"low_confidence_unreviewed"`
}
