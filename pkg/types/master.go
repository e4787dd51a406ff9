package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"
)

// MergeKey groups listings that represent the same physical repair part
// across suppliers.
type MergeKey struct {
	Brand       string `json:"brand"`
	ModelID     string `json:"model_id"`
	ServiceType string `json:"service_type"`
}

func (k MergeKey) String() string {
	return k.Brand + "|" + k.ModelID + "|" + k.ServiceType
}

// Hash returns the deterministic master id component for the key.
func (k MergeKey) Hash() string {
	h := sha256.Sum256([]byte(k.String()))
	return hex.EncodeToString(h[:8])
}

// SupplierRef records one supplier's contribution to a merged entry,
// kept for traceability.
type SupplierRef struct {
	SupplierID string          `json:"supplier_id"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	Quality    QualityTier     `json:"quality_tier"`
	Available  bool            `json:"available"`
}

// TierPrices holds the projected sell prices per service tier.
type TierPrices struct {
	Base     decimal.Decimal `json:"base"`
	Economy  decimal.Decimal `json:"economy"`
	Standard decimal.Decimal `json:"standard"`
	Premium  decimal.Decimal `json:"premium"`
	Express  decimal.Decimal `json:"express"`
}

// MasterCatalogEntry is one priced row of the reconciled catalog. It is a
// materialized view: recomputed in full on every rebuild, never mutated
// independently.
type MasterCatalogEntry struct {
	MasterID        string          `json:"master_id"`
	Brand           string          `json:"brand"`
	DeviceType      string          `json:"device_type"`
	ModelID         string          `json:"model_id"`
	ServiceType     string          `json:"service_type"`
	Quality         QualityTier     `json:"quality_tier"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SellPrices      TierPrices      `json:"sell_prices"`
	Suppliers       []SupplierRef   `json:"suppliers"`
	Available       bool            `json:"available"`
	IsMultiSupplier bool            `json:"is_multi_supplier"`
}

// Key returns the merge key the entry was built under.
func (e MasterCatalogEntry) Key() MergeKey {
	return MergeKey{Brand: e.Brand, ModelID: e.ModelID, ServiceType: e.ServiceType}
}

// MasterID derives the stable output identity for a merge key.
// Multi-supplier entries are prefixed so downstream consumers can tell
// merged rows apart at a glance.
func MasterID(key MergeKey, multiSupplier bool) string {
	if multiSupplier {
		return fmt.Sprintf("multi_%s", key.Hash())
	}
	return key.Hash()
}
