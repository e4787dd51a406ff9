// Package errors provides severity-aware error types for the
// reconciliation pipeline.
package errors

import "fmt"

// Severity indicates error impact level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ReconcileError is a structured error with context. Per-listing errors are
// recoverable and accumulate into the unmapped report; fatal errors abort
// the run.
type ReconcileError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Severity    Severity `json:"severity"`
	ListingID   string   `json:"listing_id,omitempty"`
	Recoverable bool     `json:"recoverable"`
}

func (e *ReconcileError) Error() string {
	if e.ListingID != "" {
		return fmt.Sprintf("[%s] %s: %s (listing: %s)", e.Severity, e.Code, e.Message, e.ListingID)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)
}

// Error codes
const (
	ErrCodeNoCandidate         = "NO_CANDIDATE_FOUND"
	ErrCodeLowConfidence       = "LOW_CONFIDENCE"
	ErrCodeCatalogUnresolvable = "CATALOG_UNRESOLVABLE"
	ErrCodeCatalogLoadFailed   = "CATALOG_LOAD_FAILED"
	ErrCodeLedgerWriteFailed   = "LEDGER_WRITE_FAILED"
	ErrCodeFeedParseFailed     = "FEED_PARSE_FAILED"
	ErrCodeMappingNotFound     = "MAPPING_NOT_FOUND"
)

// NewNoCandidateError marks a listing no strategy could place.
func NewNoCandidateError(listingID string) *ReconcileError {
	return &ReconcileError{
		Code:        ErrCodeNoCandidate,
		Message:     "no matching strategy produced a candidate",
		Severity:    SeverityWarning,
		ListingID:   listingID,
		Recoverable: true,
	}
}

// NewCatalogUnresolvableError marks a listing whose brand or device type is
// absent from the catalog index.
func NewCatalogUnresolvableError(listingID, brand, deviceType string) *ReconcileError {
	return &ReconcileError{
		Code:        ErrCodeCatalogUnresolvable,
		Message:     fmt.Sprintf("no catalog models for brand=%s device_type=%s", brand, deviceType),
		Severity:    SeverityWarning,
		ListingID:   listingID,
		Recoverable: true,
	}
}

// NewLowConfidenceError marks a decision held below the auto-accept
// threshold and parked for human review.
func NewLowConfidenceError(listingID string, confidence, threshold float64) *ReconcileError {
	return &ReconcileError{
		Code:        ErrCodeLowConfidence,
		Message:     fmt.Sprintf("best candidate confidence %.2f below threshold %.2f", confidence, threshold),
		Severity:    SeverityInfo,
		ListingID:   listingID,
		Recoverable: true,
	}
}

// NewCatalogLoadError wraps a catalog snapshot load failure. Fatal: every
// downstream decision depends on the catalog.
func NewCatalogLoadError(err error) *ReconcileError {
	return &ReconcileError{
		Code:        ErrCodeCatalogLoadFailed,
		Message:     err.Error(),
		Severity:    SeverityFatal,
		Recoverable: false,
	}
}

// NewFeedParseError wraps a supplier feed load failure. Fatal: there is
// nothing to reconcile without the feed.
func NewFeedParseError(err error) *ReconcileError {
	return &ReconcileError{
		Code:        ErrCodeFeedParseFailed,
		Message:     err.Error(),
		Severity:    SeverityFatal,
		Recoverable: false,
	}
}

// NewLedgerWriteError wraps a persistent ledger append failure. Fatal: the
// pipeline must not silently lose audit history.
func NewLedgerWriteError(err error) *ReconcileError {
	return &ReconcileError{
		Code:        ErrCodeLedgerWriteFailed,
		Message:     err.Error(),
		Severity:    SeverityFatal,
		Recoverable: false,
	}
}

// NewMappingNotFoundError marks a review call against an unknown ledger id.
func NewMappingNotFoundError(mappingID string) *ReconcileError {
	return &ReconcileError{
		Code:        ErrCodeMappingNotFound,
		Message:     fmt.Sprintf("no ledger entry with id %s", mappingID),
		Severity:    SeverityError,
		Recoverable: true,
	}
}
