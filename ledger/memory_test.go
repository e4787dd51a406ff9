package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsync/pkg/types"
)

func testListing(externalID string) types.NormalizedListing {
	return types.NormalizedListing{
		SupplierListing: types.SupplierListing{SupplierID: "alpha", ExternalID: externalID},
		BrandGuess:      "samsung",
	}
}

func mappedRecord(runID uuid.UUID, externalID, modelID string, conf float64) types.MappingRecord {
	return NewRecord(runID, testListing(externalID), &types.MatchCandidate{
		ModelID:    modelID,
		BrandID:    "samsung",
		Confidence: conf,
		Method:     types.MethodFuzzy,
	})
}

func TestNewRecordMapped(t *testing.T) {
	runID := uuid.New()
	rec := mappedRecord(runID, "1", "sm-g991", 0.93)

	assert.Equal(t, runID, rec.RunID)
	assert.Equal(t, "alpha:1", rec.SupplierListingID)
	require.NotNil(t, rec.ModelID)
	assert.Equal(t, "sm-g991", *rec.ModelID)
	assert.True(t, rec.Mapped())

	// Approved starts unset; only a review fills it in.
	assert.Nil(t, rec.Approved)
	assert.Nil(t, rec.ReviewedBy)
	assert.True(t, rec.Pending())
}

func TestNewRecordUnmapped(t *testing.T) {
	rec := NewRecord(uuid.New(), testListing("1"), nil)

	assert.Nil(t, rec.ModelID)
	assert.False(t, rec.Mapped())
	assert.Zero(t, rec.Confidence)
}

func TestAppendIdempotentPerListingAndRun(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	runID := uuid.New()

	first := mappedRecord(runID, "1", "sm-g991", 0.93)
	require.NoError(t, repo.AppendMapping(ctx, first))

	// A re-flush of the same (listing, run) is a no-op.
	replay := mappedRecord(runID, "1", "sm-g991", 0.93)
	require.NoError(t, repo.AppendMapping(ctx, replay))
	assert.Len(t, repo.Records(), 1)

	// A different run for the same listing is a new entry.
	otherRun := mappedRecord(uuid.New(), "1", "sm-g991", 0.93)
	require.NoError(t, repo.AppendMapping(ctx, otherRun))
	assert.Len(t, repo.Records(), 2)
}

func TestAppendBatchIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	runID := uuid.New()

	batch := []types.MappingRecord{
		mappedRecord(runID, "1", "sm-g991", 0.93),
		mappedRecord(runID, "2", "sm-g998", 0.85),
	}
	require.NoError(t, repo.AppendBatch(ctx, batch))
	require.NoError(t, repo.AppendBatch(ctx, batch))

	assert.Len(t, repo.Records(), 2)
}

func TestReviewMapping(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	rec := mappedRecord(uuid.New(), "1", "sm-g991", 0.65)
	require.NoError(t, repo.AppendMapping(ctx, rec))

	reviewed, err := repo.ReviewMapping(ctx, rec.ID, "ops@example.com", true)
	require.NoError(t, err)
	require.NotNil(t, reviewed.Approved)
	assert.True(t, *reviewed.Approved)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, "ops@example.com", *reviewed.ReviewedBy)
	assert.False(t, reviewed.Pending())

	// Decision fields stay untouched.
	assert.Equal(t, rec.Confidence, reviewed.Confidence)
	assert.Equal(t, rec.Method, reviewed.Method)
	assert.Equal(t, rec.MappedAt, reviewed.MappedAt)

	// A second review replaces the verdict without adding a row.
	again, err := repo.ReviewMapping(ctx, rec.ID, "lead@example.com", false)
	require.NoError(t, err)
	assert.False(t, *again.Approved)
	assert.Len(t, repo.Records(), 1)
}

func TestReviewMappingUnknownID(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.ReviewMapping(context.Background(), uuid.New(), "ops", true)
	assert.Error(t, err)
}

func TestQueryLowConfidence(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	runID := uuid.New()

	older := mappedRecord(runID, "1", "sm-g991", 0.55)
	older.MappedAt = time.Now().UTC().Add(-time.Hour)
	newer := mappedRecord(runID, "2", "sm-g998", 0.6)
	high := mappedRecord(runID, "3", "sm-t870", 0.95)
	unmapped := NewRecord(runID, testListing("4"), nil)
	reviewed := mappedRecord(runID, "5", "a2403", 0.5)

	require.NoError(t, repo.AppendBatch(ctx, []types.MappingRecord{newer, older, high, unmapped, reviewed}))
	_, err := repo.ReviewMapping(ctx, reviewed.ID, "ops", true)
	require.NoError(t, err)

	queue, err := repo.QueryLowConfidence(ctx, 0.7)
	require.NoError(t, err)
	require.Len(t, queue, 2)

	// Oldest first; high-confidence, unmapped, and already-reviewed
	// entries are all excluded.
	assert.Equal(t, "alpha:1", queue[0].SupplierListingID)
	assert.Equal(t, "alpha:2", queue[1].SupplierListingID)
}

func TestQueryUnmapped(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	runID := uuid.New()

	older := NewRecord(runID, testListing("1"), nil)
	older.MappedAt = time.Now().UTC().Add(-time.Hour)
	newer := NewRecord(runID, testListing("2"), nil)
	mapped := mappedRecord(runID, "3", "sm-g991", 0.9)

	require.NoError(t, repo.AppendBatch(ctx, []types.MappingRecord{newer, older, mapped}))

	unmapped, err := repo.QueryUnmapped(ctx)
	require.NoError(t, err)
	require.Len(t, unmapped, 2)

	// Oldest first; mapped entries never appear.
	assert.Equal(t, "alpha:1", unmapped[0].SupplierListingID)
	assert.Equal(t, "alpha:2", unmapped[1].SupplierListingID)
}

func TestQualityReport(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	runID := uuid.New()

	require.NoError(t, repo.AppendBatch(ctx, []types.MappingRecord{
		mappedRecord(runID, "1", "sm-g991", 0.9),
		mappedRecord(runID, "2", "sm-g998", 0.6),
		NewRecord(runID, testListing("3"), nil),
	}))

	report, err := repo.QualityReport(ctx, 0.7)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalMappings)
	assert.InDelta(t, 0.75, report.MeanConfidence, 1e-9)
	assert.Equal(t, 2, report.ByMethod[types.MethodFuzzy])
	assert.Equal(t, 2, report.ByBrand["samsung"])
	require.Len(t, report.LowConfidence, 1)
	assert.Equal(t, "alpha:2", report.LowConfidence[0].SupplierListingID)
}
