// Package types defines the shared contracts between the reconciliation
// pipeline stages: supplier listings in, master catalog entries out.
package types

import (
	"github.com/shopspring/decimal"
)

// Unresolved is the sentinel for a guess the normalizer could not make.
// Every guess field holds either a real value or this constant, never "".
const Unresolved = "unknown"

// SupplierListing is one raw part listing from a supplier feed.
// Listings are immutable per import; a re-scrape supersedes, never edits.
type SupplierListing struct {
	SupplierID string          `json:"supplier_id"`
	ExternalID string          `json:"external_id"`
	RawTitle   string          `json:"raw_title"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	Available  bool            `json:"available"`
	Tags       []string        `json:"tags,omitempty"`
}

// ID returns the listing identity used in the ledger and reports.
func (l SupplierListing) ID() string {
	return l.SupplierID + ":" + l.ExternalID
}

// QualityTier classifies the physical part grade of a listing.
type QualityTier string

const (
	TierEconomy  QualityTier = "economy"
	TierStandard QualityTier = "standard"
	TierPremium  QualityTier = "premium"
	TierExpress  QualityTier = "express"
)

// NormalizedListing is a SupplierListing plus the normalizer's structured
// guesses. It is a pure derivation: recomputed per run, never persisted
// as authoritative.
type NormalizedListing struct {
	SupplierListing

	BrandGuess       string      `json:"brand_guess"`
	DeviceTypeGuess  string      `json:"device_type_guess"`
	ServiceTypeGuess string      `json:"service_type_guess"`
	ModelNameGuess   string      `json:"model_name_guess"`
	QualityGuess     QualityTier `json:"quality_guess"`
}

// Resolved reports whether the normalizer produced enough structure to
// attempt catalog matching at all.
func (n NormalizedListing) Resolved() bool {
	return n.BrandGuess != Unresolved && n.ModelNameGuess != Unresolved
}
