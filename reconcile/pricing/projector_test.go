package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsync/pkg/types"
)

func defaultProjector() *Projector {
	return NewProjector(nil, nil)
}

func TestProjectFloorApplies(t *testing.T) {
	// 15 x 2.5 = 37.50 sits under the band floor of 50.
	prices := defaultProjector().Project(decimal.NewFromInt(15))

	assert.True(t, prices.Base.Equal(decimal.NewFromInt(50)), prices.Base.String())
	assert.True(t, prices.Economy.Equal(decimal.NewFromInt(40)))
	assert.True(t, prices.Standard.Equal(decimal.NewFromInt(50)))
	assert.True(t, prices.Express.Equal(decimal.NewFromInt(75)))
}

func TestProjectMultiplierApplies(t *testing.T) {
	// 90 x 2.0 = 180 clears the band floor of 120.
	prices := defaultProjector().Project(decimal.NewFromInt(90))

	assert.True(t, prices.Base.Equal(decimal.NewFromInt(180)), prices.Base.String())
	assert.True(t, prices.Premium.Equal(decimal.NewFromInt(225)))
}

func TestProjectBandBoundaries(t *testing.T) {
	p := defaultProjector()

	cases := []struct {
		cost int64
		base int64
	}{
		{20, 50},   // 20 x 2.5 = 50, exactly the floor
		{21, 75},   // second band, 46.20 under floor 75
		{50, 110},  // 50 x 2.2
		{100, 200}, // 100 x 2.0
		{200, 360}, // 200 x 1.8
		{300, 480}, // 300 x 1.6
		{500, 750}, // open-ended band, 500 x 1.5
	}
	for _, tc := range cases {
		got := p.Project(decimal.NewFromInt(tc.cost)).Base
		assert.True(t, got.Equal(decimal.NewFromInt(tc.base)),
			"cost %d: got base %s", tc.cost, got.String())
	}
}

func TestProjectRoundsToCurrencyUnit(t *testing.T) {
	// 30 x 2.2 = 66 sits under the floor of 75; premium is then
	// 75 x 1.25 = 93.75, rounded to 94.
	prices := defaultProjector().Project(decimal.NewFromInt(30))

	assert.True(t, prices.Base.Equal(decimal.NewFromInt(75)))
	assert.True(t, prices.Premium.Equal(decimal.NewFromInt(94)), prices.Premium.String())
}

func TestProjectMonotonicThroughMidBands(t *testing.T) {
	// Floors keep the base nondecreasing across the lower band edges.
	p := defaultProjector()

	prev := decimal.Zero
	for cost := int64(1); cost <= 200; cost++ {
		base := p.Project(decimal.NewFromInt(cost)).Base
		require.True(t, base.GreaterThanOrEqual(prev),
			"cost %d: base %s dropped below %s", cost, base.String(), prev.String())
		prev = base
	}
}

func TestProjectCustomTables(t *testing.T) {
	bands := []Band{
		{Multiplier: decimal.NewFromInt(2), Floor: decimal.NewFromInt(10)},
	}
	tiers := Multipliers{
		Economy:  decimal.NewFromFloat(0.5),
		Standard: decimal.NewFromInt(1),
		Premium:  decimal.NewFromInt(2),
		Express:  decimal.NewFromInt(3),
	}
	p := NewProjector(bands, &tiers)

	prices := p.Project(decimal.NewFromInt(100))
	assert.True(t, prices.Base.Equal(decimal.NewFromInt(200)))
	assert.True(t, prices.Economy.Equal(decimal.NewFromInt(100)))
	assert.True(t, prices.Express.Equal(decimal.NewFromInt(600)))
}

func TestApplyAllPreservesOrder(t *testing.T) {
	entries := []types.MasterCatalogEntry{
		{MasterID: "a", CostPrice: decimal.NewFromInt(15)},
		{MasterID: "b", CostPrice: decimal.NewFromInt(90)},
	}
	out := defaultProjector().ApplyAll(entries)

	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].MasterID)
	assert.True(t, out[0].SellPrices.Base.Equal(decimal.NewFromInt(50)))
	assert.True(t, out[1].SellPrices.Base.Equal(decimal.NewFromInt(180)))
}
