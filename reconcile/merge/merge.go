// Package merge groups resolved listings by (brand, model, service type)
// and folds same-key listings from different suppliers into one priced
// master entry.
package merge

import (
	"sort"

	"partsync/pkg/types"
)

// Resolved is an accepted mapping joined back to its listing.
type Resolved struct {
	Listing    types.NormalizedListing
	ModelID    string
	Confidence float64
}

// Engine builds master catalog entries from resolved listings.
type Engine struct{}

// NewEngine creates a merge engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Merge groups by merge key and folds each group into one entry:
// cost price is the minimum contributing price, availability is true when
// any contributor is available, and every contributor is kept in
// suppliers[] for traceability. Output is sorted by merge key so repeated
// runs compare byte-equal.
func (e *Engine) Merge(resolved []Resolved) []types.MasterCatalogEntry {
	groups := make(map[types.MergeKey][]Resolved)
	var order []types.MergeKey
	for _, r := range resolved {
		key := types.MergeKey{
			Brand:       r.Listing.BrandGuess,
			ModelID:     r.ModelID,
			ServiceType: r.Listing.ServiceTypeGuess,
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	sort.Slice(order, func(i, j int) bool { return order[i].String() < order[j].String() })

	entries := make([]types.MasterCatalogEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, e.fold(key, groups[key]))
	}
	return entries
}

// fold collapses one merge group. Distinct suppliers decide the
// multi-supplier flag; the same supplier listing a part twice is still a
// single-supplier entry.
func (e *Engine) fold(key types.MergeKey, group []Resolved) types.MasterCatalogEntry {
	suppliers := make([]types.SupplierRef, 0, len(group))
	distinct := make(map[string]struct{})

	best := group[0]
	minPrice := group[0].Listing.Price
	available := false
	deviceType := group[0].Listing.DeviceTypeGuess

	for _, r := range group {
		distinct[r.Listing.SupplierID] = struct{}{}
		suppliers = append(suppliers, types.SupplierRef{
			SupplierID: r.Listing.SupplierID,
			SKU:        r.Listing.SKU,
			Price:      r.Listing.Price,
			Quality:    r.Listing.QualityGuess,
			Available:  r.Listing.Available,
		})
		if r.Listing.Available {
			available = true
		}
		if r.Listing.Price.LessThan(minPrice) {
			minPrice = r.Listing.Price
			best = r
		}
	}

	sort.Slice(suppliers, func(i, j int) bool {
		if suppliers[i].SupplierID != suppliers[j].SupplierID {
			return suppliers[i].SupplierID < suppliers[j].SupplierID
		}
		return suppliers[i].SKU < suppliers[j].SKU
	})

	multi := len(distinct) > 1
	return types.MasterCatalogEntry{
		MasterID:        types.MasterID(key, multi),
		Brand:           key.Brand,
		DeviceType:      deviceType,
		ModelID:         key.ModelID,
		ServiceType:     key.ServiceType,
		Quality:         best.Listing.QualityGuess,
		CostPrice:       minPrice,
		Suppliers:       suppliers,
		Available:       available,
		IsMultiSupplier: multi,
	}
}
