// Package index provides the in-memory, read-only catalog lookup shared by
// every matching worker in a run.
package index

import (
	"partsync/pkg/types"
)

type key struct {
	brandID    string
	deviceType string
}

// Index is an immutable lookup of canonical models keyed by
// (brand, device type). Build once per run; rebuilding the catalog means a
// new Index instance, so concurrent readers never see partial updates.
type Index struct {
	byKey  map[key][]types.CanonicalModel
	models int
}

// Build constructs an Index from a full catalog snapshot. The snapshot
// slice is copied per bucket; the caller may discard it afterwards.
func Build(models []types.CanonicalModel) *Index {
	idx := &Index{
		byKey:  make(map[key][]types.CanonicalModel),
		models: len(models),
	}
	for _, m := range models {
		k := key{brandID: m.BrandID, deviceType: m.DeviceType}
		idx.byKey[k] = append(idx.byKey[k], m)
	}
	return idx
}

// CandidatesFor returns the models for a brand/device-type pair. An absent
// combination yields an empty slice; that is the only error signal.
func (idx *Index) CandidatesFor(brandID, deviceType string) []types.CanonicalModel {
	return idx.byKey[key{brandID: brandID, deviceType: deviceType}]
}

// Size returns the number of models indexed.
func (idx *Index) Size() int {
	return idx.models
}

// HasBrand reports whether the index holds any models for a brand,
// regardless of device type. The pipeline uses it to tell a brand the
// catalog has never seen apart from an empty device-type bucket.
func (idx *Index) HasBrand(brandID string) bool {
	for k := range idx.byKey {
		if k.brandID == brandID {
			return true
		}
	}
	return false
}
