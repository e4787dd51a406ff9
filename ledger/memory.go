package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"partsync/pkg/confidence"
	reconcileerrors "partsync/pkg/errors"
	"partsync/pkg/types"
)

// MemoryRepository is the in-memory ledger used by tests and single-shot
// CLI runs without a database. Writes are serialized behind one mutex;
// the pipeline batches per chunk so contention is negligible.
type MemoryRepository struct {
	mu      sync.Mutex
	records []types.MappingRecord
	byID    map[uuid.UUID]int
	byKey   map[string]struct{} // listing_id|run_id, idempotence guard
}

// NewMemoryRepository creates an empty in-memory ledger.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:  make(map[uuid.UUID]int),
		byKey: make(map[string]struct{}),
	}
}

func (r *MemoryRepository) AppendMapping(ctx context.Context, record types.MappingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.append(record)
	return nil
}

func (r *MemoryRepository) AppendBatch(ctx context.Context, records []types.MappingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		r.append(rec)
	}
	return nil
}

// append skips records whose (listing, run) key was already written, so a
// resumed chunk re-flush is a no-op.
func (r *MemoryRepository) append(record types.MappingRecord) {
	key := record.SupplierListingID + "|" + record.RunID.String()
	if _, dup := r.byKey[key]; dup {
		return
	}
	r.byKey[key] = struct{}{}
	r.byID[record.ID] = len(r.records)
	r.records = append(r.records, record)
}

func (r *MemoryRepository) ReviewMapping(ctx context.Context, mappingID uuid.UUID, reviewer string, approved bool) (types.MappingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byID[mappingID]
	if !ok {
		return types.MappingRecord{}, reconcileerrors.NewMappingNotFoundError(mappingID.String())
	}
	rec := r.records[i]
	rec.ReviewedBy = &reviewer
	rec.Approved = &approved
	r.records[i] = rec
	return rec, nil
}

func (r *MemoryRepository) QueryLowConfidence(ctx context.Context, threshold float64) ([]types.MappingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []types.MappingRecord
	for _, rec := range r.records {
		if rec.Mapped() && rec.Pending() && rec.Confidence < threshold {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MappedAt.Before(out[j].MappedAt) })
	return out, nil
}

func (r *MemoryRepository) QueryUnmapped(ctx context.Context) ([]types.MappingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []types.MappingRecord
	for _, rec := range r.records {
		if !rec.Mapped() {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MappedAt.Before(out[j].MappedAt) })
	return out, nil
}

func (r *MemoryRepository) QualityReport(ctx context.Context, lowConfidenceThreshold float64) (types.QualityReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := types.QualityReport{
		ByMethod: make(map[types.MatchMethod]int),
		ByBrand:  make(map[string]int),
	}

	var scores []float64
	for _, rec := range r.records {
		if !rec.Mapped() {
			continue
		}
		report.TotalMappings++
		report.ByMethod[rec.Method]++
		report.ByBrand[rec.Brand]++
		scores = append(scores, rec.Confidence)
		if rec.Pending() && rec.Confidence < lowConfidenceThreshold {
			report.LowConfidence = append(report.LowConfidence, rec)
		}
	}
	report.MeanConfidence = confidence.Mean(scores)
	sort.Slice(report.LowConfidence, func(i, j int) bool {
		return report.LowConfidence[i].MappedAt.Before(report.LowConfidence[j].MappedAt)
	})
	return report, nil
}

// Records returns a copy of all entries, append order. Test helper.
func (r *MemoryRepository) Records() []types.MappingRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.MappingRecord, len(r.records))
	copy(out, r.records)
	return out
}
