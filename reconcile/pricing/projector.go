// Package pricing projects merged cost prices into sellable tiered prices.
package pricing

import (
	"github.com/shopspring/decimal"

	"partsync/pkg/types"
)

// Band is one markup rule: costs up to Limit get max(cost x Multiplier,
// Floor). The floor is a minimum sell price, not a multiplier-only result.
type Band struct {
	Limit      decimal.Decimal `json:"limit" yaml:"limit"` // zero Limit = open-ended top band
	Multiplier decimal.Decimal `json:"multiplier" yaml:"multiplier"`
	Floor      decimal.Decimal `json:"floor" yaml:"floor"`
}

// Multipliers scale the base price per service tier.
type Multipliers struct {
	Economy  decimal.Decimal `json:"economy" yaml:"economy"`
	Standard decimal.Decimal `json:"standard" yaml:"standard"`
	Premium  decimal.Decimal `json:"premium" yaml:"premium"`
	Express  decimal.Decimal `json:"express" yaml:"express"`
}

// Projector applies the markup bands and tier multipliers.
type Projector struct {
	bands []Band
	tiers Multipliers
}

// DefaultBands returns the shipped markup table. Bands are ordered by
// limit; the last band is open-ended.
func DefaultBands() []Band {
	d := decimal.NewFromInt
	f := decimal.NewFromFloat
	return []Band{
		{Limit: d(20), Multiplier: f(2.5), Floor: d(50)},
		{Limit: d(50), Multiplier: f(2.2), Floor: d(75)},
		{Limit: d(100), Multiplier: f(2.0), Floor: d(120)},
		{Limit: d(200), Multiplier: f(1.8), Floor: d(200)},
		{Limit: d(300), Multiplier: f(1.6), Floor: d(350)},
		{Multiplier: f(1.5), Floor: d(450)},
	}
}

// DefaultMultipliers returns the shipped service-tier multipliers.
func DefaultMultipliers() Multipliers {
	f := decimal.NewFromFloat
	return Multipliers{
		Economy:  f(0.8),
		Standard: f(1.0),
		Premium:  f(1.25),
		Express:  f(1.5),
	}
}

// NewProjector builds a projector. Nil/empty inputs fall back to the
// shipped tables.
func NewProjector(bands []Band, tiers *Multipliers) *Projector {
	if len(bands) == 0 {
		bands = DefaultBands()
	}
	if tiers == nil {
		m := DefaultMultipliers()
		tiers = &m
	}
	return &Projector{bands: bands, tiers: *tiers}
}

// Project computes the tiered sell prices for a cost price. Every output
// is rounded to the nearest currency unit.
func (p *Projector) Project(cost decimal.Decimal) types.TierPrices {
	base := p.basePrice(cost)
	return types.TierPrices{
		Base:     base.Round(0),
		Economy:  base.Mul(p.tiers.Economy).Round(0),
		Standard: base.Mul(p.tiers.Standard).Round(0),
		Premium:  base.Mul(p.tiers.Premium).Round(0),
		Express:  base.Mul(p.tiers.Express).Round(0),
	}
}

func (p *Projector) basePrice(cost decimal.Decimal) decimal.Decimal {
	for _, band := range p.bands {
		if band.Limit.IsZero() || cost.LessThanOrEqual(band.Limit) {
			price := cost.Mul(band.Multiplier)
			if price.LessThan(band.Floor) {
				return band.Floor
			}
			return price
		}
	}
	// Unreachable with a well-formed table: the last band is open-ended.
	return cost
}

// Apply attaches projected prices to a master entry.
func (p *Projector) Apply(entry types.MasterCatalogEntry) types.MasterCatalogEntry {
	entry.SellPrices = p.Project(entry.CostPrice)
	return entry
}

// ApplyAll projects every entry, preserving order.
func (p *Projector) ApplyAll(entries []types.MasterCatalogEntry) []types.MasterCatalogEntry {
	out := make([]types.MasterCatalogEntry, len(entries))
	for i, e := range entries {
		out[i] = p.Apply(e)
	}
	return out
}
