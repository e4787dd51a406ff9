// Package pipeline orchestrates a reconciliation run: normalize, match,
// arbitrate, ledger, merge, price. Listings are independent, so matching
// fans out across workers sharing one read-only catalog index; the only
// shared mutable resource is the ledger append stream, flushed once per
// chunk.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"partsync/ledger"
	"partsync/pkg/confidence"
	reconcileerrors "partsync/pkg/errors"
	"partsync/pkg/types"
	"partsync/reconcile/arbiter"
	"partsync/reconcile/index"
	"partsync/reconcile/match"
	"partsync/reconcile/merge"
	"partsync/reconcile/normalize"
	"partsync/reconcile/pricing"
)

// Options tune a run. Zero values fall back to defaults.
type Options struct {
	AutoAcceptThreshold float64
	FuzzyThreshold      float64
	PartialThreshold    float64
	ChunkSize           int
	Workers             int
	MarkupBands         []pricing.Band
	TierMultipliers     *pricing.Multipliers

	// Abbreviations and Synonyms override the shipped lookup tables.
	// Loaded once here and immutable for the life of the pipeline.
	Abbreviations map[string]string
	Synonyms      map[string][]string

	// ResumeFromChunk marks chunks already flushed by a crashed run.
	// Those chunks are still resolved, so merge and pricing see the
	// full feed; only their ledger flush and checkpoint are skipped.
	ResumeFromChunk int

	// LedgerRetries and LedgerBackoff govern flush retry policy before a
	// write failure escalates to a fatal run failure.
	LedgerRetries int
	LedgerBackoff time.Duration
}

func (o *Options) defaults() {
	if o.AutoAcceptThreshold == 0 {
		o.AutoAcceptThreshold = 0.7
	}
	if o.FuzzyThreshold == 0 {
		o.FuzzyThreshold = 0.8
	}
	if o.PartialThreshold == 0 {
		o.PartialThreshold = 0.6
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = 200
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.LedgerRetries <= 0 {
		o.LedgerRetries = 3
	}
	if o.LedgerBackoff <= 0 {
		o.LedgerBackoff = 250 * time.Millisecond
	}
}

// Checkpoint marks a successfully flushed chunk.
type Checkpoint struct {
	RunID         uuid.UUID `json:"run_id"`
	ChunkIndex    int       `json:"chunk_index"`
	LastListingID string    `json:"last_listing_id"`
	FlushedAt     time.Time `json:"flushed_at"`
}

// Stats summarize a run.
type Stats struct {
	Processed      int     `json:"processed"`
	Applied        int     `json:"applied"`
	Pending        int     `json:"pending_review"`
	Unmapped       int     `json:"unmapped"`
	TiesBroken     int     `json:"ties_broken"`
	MeanConfidence float64 `json:"mean_confidence"`
}

// Result is the full output of a run.
type Result struct {
	RunID       uuid.UUID                  `json:"run_id"`
	Entries     []types.MasterCatalogEntry `json:"entries"`
	Unmapped    []types.UnmappedListing    `json:"unmapped"`
	Stats       Stats                      `json:"stats"`
	Checkpoints []Checkpoint               `json:"checkpoints"`
}

// Pipeline is the assembled engine. Build once per catalog snapshot.
type Pipeline struct {
	opts     Options
	idx      *index.Index
	chain    *match.Chain
	arbiter  *arbiter.Arbiter
	merger   *merge.Engine
	project  *pricing.Projector
	ledger   ledger.Repository
	log      zerolog.Logger
}

// New assembles a pipeline over a loaded catalog snapshot. The snapshot
// must be complete before any matching begins; loading it is the caller's
// job and a load failure aborts the run before New is reached.
func New(models []types.CanonicalModel, repo ledger.Repository, opts Options, log zerolog.Logger) *Pipeline {
	opts.defaults()

	matchCfg := match.DefaultConfig()
	matchCfg.FuzzyThreshold = opts.FuzzyThreshold
	matchCfg.PartialThreshold = opts.PartialThreshold
	if len(opts.Abbreviations) > 0 {
		matchCfg.Abbreviations = opts.Abbreviations
	}
	if len(opts.Synonyms) > 0 {
		matchCfg.Synonyms = opts.Synonyms
	}
	chain := match.NewChain(matchCfg)

	return &Pipeline{
		opts:    opts,
		idx:     index.Build(models),
		chain:   chain,
		arbiter: arbiter.New(chain, opts.AutoAcceptThreshold),
		merger:  merge.NewEngine(),
		project: pricing.NewProjector(opts.MarkupBands, opts.TierMultipliers),
		ledger:  repo,
		log:     log,
	}
}

// outcome is one listing's resolution, kept in input order for
// deterministic ledger batches and reports.
type outcome struct {
	record   types.MappingRecord
	resolved *merge.Resolved
	unmapped *types.UnmappedListing
	tied     bool
}

// Run executes the batch. Per-listing failures never abort the run; they
// accumulate into the unmapped report. A persistent ledger flush failure
// or a cancelled context aborts at the next chunk boundary.
func (p *Pipeline) Run(ctx context.Context, listings []types.SupplierListing) (*Result, error) {
	runID := uuid.New()
	result := &Result{RunID: runID}

	p.log.Info().
		Str("run_id", runID.String()).
		Int("listings", len(listings)).
		Int("catalog_models", p.idx.Size()).
		Msg("reconciliation run started")

	var accepted []merge.Resolved
	var scores []float64

	chunks := chunkListings(listings, p.opts.ChunkSize)
	for ci, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled at chunk %d: %w", ci, err)
		}

		outcomes := p.resolveChunk(runID, chunk)

		// The merged catalog is rebuilt from scratch every run, so a
		// resumed run must resolve all chunks; ResumeFromChunk only
		// spares the ledger writes the crashed run already made.
		if ci >= p.opts.ResumeFromChunk {
			records := make([]types.MappingRecord, len(outcomes))
			for i, o := range outcomes {
				records[i] = o.record
			}
			if err := p.flushWithRetry(ctx, records); err != nil {
				return nil, reconcileerrors.NewLedgerWriteError(err)
			}
		}

		for _, o := range outcomes {
			result.Stats.Processed++
			if o.tied {
				result.Stats.TiesBroken++
			}
			if o.record.Mapped() {
				scores = append(scores, o.record.Confidence)
			}
			switch {
			case o.resolved != nil:
				result.Stats.Applied++
				accepted = append(accepted, *o.resolved)
			case o.unmapped != nil && o.unmapped.Reason == types.ReasonLowConfidence:
				result.Stats.Pending++
				result.Unmapped = append(result.Unmapped, *o.unmapped)
			case o.unmapped != nil:
				result.Stats.Unmapped++
				result.Unmapped = append(result.Unmapped, *o.unmapped)
			}
		}

		if ci >= p.opts.ResumeFromChunk {
			cp := Checkpoint{
				RunID:         runID,
				ChunkIndex:    ci,
				LastListingID: chunk[len(chunk)-1].ID(),
				FlushedAt:     time.Now().UTC(),
			}
			result.Checkpoints = append(result.Checkpoints, cp)
			p.log.Debug().
				Int("chunk", ci).
				Int("size", len(chunk)).
				Msg("chunk flushed")
		}
	}

	result.Stats.MeanConfidence = confidence.Mean(scores)
	result.Entries = p.project.ApplyAll(p.merger.Merge(accepted))

	p.log.Info().
		Int("entries", len(result.Entries)).
		Int("applied", result.Stats.Applied).
		Int("pending_review", result.Stats.Pending).
		Int("unmapped", result.Stats.Unmapped).
		Float64("mean_confidence", result.Stats.MeanConfidence).
		Msg("reconciliation run complete")
	return result, nil
}

// resolveChunk fans the chunk out across workers. Results land in an
// index-addressed slice, so no locking and stable ordering.
func (p *Pipeline) resolveChunk(runID uuid.UUID, chunk []types.SupplierListing) []outcome {
	outcomes := make([]outcome, len(chunk))

	jobs := make(chan int)
	done := make(chan struct{})
	for w := 0; w < p.opts.Workers; w++ {
		go func() {
			for i := range jobs {
				outcomes[i] = p.resolveOne(runID, chunk[i])
			}
			done <- struct{}{}
		}()
	}
	for i := range chunk {
		jobs <- i
	}
	close(jobs)
	for w := 0; w < p.opts.Workers; w++ {
		<-done
	}
	return outcomes
}

// resolveOne runs the full decision path for a single listing. Atomic:
// there is no cancellation mid-listing.
func (p *Pipeline) resolveOne(runID uuid.UUID, raw types.SupplierListing) outcome {
	listing := normalize.Normalize(raw)

	candidates := p.idx.CandidatesFor(listing.BrandGuess, listing.DeviceTypeGuess)
	if len(candidates) == 0 {
		// A brand the catalog carries at all means the listing itself
		// was readable; only the (brand, device type) bucket is empty.
		reason := types.ReasonNoCandidate
		cause := error(reconcileerrors.NewNoCandidateError(listing.ID()))
		if !listing.Resolved() || !p.idx.HasBrand(listing.BrandGuess) {
			reason = types.ReasonCatalogUnresolvable
			cause = reconcileerrors.NewCatalogUnresolvableError(listing.ID(), listing.BrandGuess, listing.DeviceTypeGuess)
		}
		p.log.Debug().Err(cause).Msg("listing not matchable")
		return outcome{
			record:   ledger.NewRecord(runID, listing, nil),
			unmapped: unmappedRow(listing, reason, 0),
		}
	}

	proposals := p.chain.Collect(listing, candidates)
	decision := p.arbiter.Decide(listing, proposals)

	o := outcome{
		record: ledger.NewRecord(runID, listing, decision.Candidate),
		tied:   decision.TieBroken,
	}
	if decision.TieBroken {
		p.log.Debug().
			Str("listing", listing.ID()).
			Str("model", decision.Candidate.ModelID).
			Msg("confidence tie resolved by chain priority")
	}

	switch decision.Outcome {
	case arbiter.OutcomeApplied:
		o.resolved = &merge.Resolved{
			Listing:    listing,
			ModelID:    decision.Candidate.ModelID,
			Confidence: decision.Candidate.Confidence,
		}
	case arbiter.OutcomePending:
		p.log.Debug().
			Err(reconcileerrors.NewLowConfidenceError(listing.ID(), decision.Candidate.Confidence, p.opts.AutoAcceptThreshold)).
			Msg("mapping parked for review")
		o.unmapped = unmappedRow(listing, types.ReasonLowConfidence, decision.Candidate.Confidence)
	default:
		p.log.Debug().Err(reconcileerrors.NewNoCandidateError(listing.ID())).Msg("no strategy matched")
		o.unmapped = unmappedRow(listing, types.ReasonNoCandidate, 0)
	}
	return o
}

// flushWithRetry retries ledger appends with linear backoff before
// escalating: the pipeline must not silently lose audit history.
func (p *Pipeline) flushWithRetry(ctx context.Context, records []types.MappingRecord) error {
	var err error
	for attempt := 1; attempt <= p.opts.LedgerRetries; attempt++ {
		if err = p.ledger.AppendBatch(ctx, records); err == nil {
			return nil
		}
		p.log.Warn().
			Err(err).
			Int("attempt", attempt).
			Msg("ledger flush failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.opts.LedgerBackoff * time.Duration(attempt)):
		}
	}
	return err
}

func unmappedRow(listing types.NormalizedListing, reason types.UnmappedReason, best float64) *types.UnmappedListing {
	return &types.UnmappedListing{
		ListingID:        listing.ID(),
		BrandGuess:       listing.BrandGuess,
		DeviceTypeGuess:  listing.DeviceTypeGuess,
		ServiceTypeGuess: listing.ServiceTypeGuess,
		ModelNameGuess:   listing.ModelNameGuess,
		Reason:           reason,
		BestConfidence:   best,
	}
}

func chunkListings(listings []types.SupplierListing, size int) [][]types.SupplierListing {
	var chunks [][]types.SupplierListing
	for start := 0; start < len(listings); start += size {
		end := start + size
		if end > len(listings) {
			end = len(listings)
		}
		chunks = append(chunks, listings[start:end])
	}
	return chunks
}
