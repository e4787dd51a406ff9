// Package ledger is the append-only audit trail of mapping decisions.
// Entries are written once per (listing, run); a review only ever adds the
// reviewer verdict on top, so history stays queryable forever.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"partsync/pkg/types"
)

// Repository is the persistence port for the ledger. The pipeline takes it
// by injection so the core carries no ambient storage state and tests run
// against the in-memory implementation.
type Repository interface {
	// AppendMapping writes one decision. Idempotent per
	// (supplier_listing_id, run_id): a re-run of an already-flushed chunk
	// does not duplicate rows.
	AppendMapping(ctx context.Context, record types.MappingRecord) error

	// AppendBatch flushes a chunk of decisions in one write.
	AppendBatch(ctx context.Context, records []types.MappingRecord) error

	// ReviewMapping sets reviewed_by/approved on an existing entry without
	// touching confidence, method, or mapped_at. Repeat reviews update the
	// verdict in place; they never create a second row.
	ReviewMapping(ctx context.Context, mappingID uuid.UUID, reviewer string, approved bool) (types.MappingRecord, error)

	// QueryLowConfidence returns unreviewed entries below the threshold,
	// oldest first: the human review queue.
	QueryLowConfidence(ctx context.Context, threshold float64) ([]types.MappingRecord, error)

	// QueryUnmapped returns entries recorded without a model decision,
	// oldest first: the listings no strategy could place.
	QueryUnmapped(ctx context.Context) ([]types.MappingRecord, error)

	// QualityReport aggregates ledger state for operators.
	QualityReport(ctx context.Context, lowConfidenceThreshold float64) (types.QualityReport, error)
}

// NewRecord builds a ledger entry for an arbitration result. candidate is
// nil for an unmapped listing. Approved starts nil: only a human review
// ever sets it.
func NewRecord(runID uuid.UUID, listing types.NormalizedListing, candidate *types.MatchCandidate) types.MappingRecord {
	rec := types.MappingRecord{
		ID:                uuid.New(),
		RunID:             runID,
		SupplierListingID: listing.ID(),
		Brand:             listing.BrandGuess,
		MappedAt:          time.Now().UTC(),
	}
	if candidate != nil {
		modelID := candidate.ModelID
		rec.ModelID = &modelID
		rec.Confidence = candidate.Confidence
		rec.Method = candidate.Method
	}
	return rec
}
