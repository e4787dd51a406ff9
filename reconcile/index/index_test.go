package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsync/pkg/types"
)

func testCatalog() []types.CanonicalModel {
	return []types.CanonicalModel{
		{ModelID: "sm-g991", BrandID: "samsung", DeviceType: "phone", Name: "Galaxy S21"},
		{ModelID: "sm-g998", BrandID: "samsung", DeviceType: "phone", Name: "Galaxy S21 Ultra"},
		{ModelID: "sm-t870", BrandID: "samsung", DeviceType: "tablet", Name: "Galaxy Tab S7"},
		{ModelID: "a2403", BrandID: "apple", DeviceType: "phone", Name: "iPhone 12"},
	}
}

func TestBuildGroupsByBrandAndDeviceType(t *testing.T) {
	idx := Build(testCatalog())

	assert.Equal(t, 4, idx.Size())

	phones := idx.CandidatesFor("samsung", "phone")
	require.Len(t, phones, 2)
	assert.Equal(t, "sm-g991", phones[0].ModelID)
	assert.Equal(t, "sm-g998", phones[1].ModelID)

	tablets := idx.CandidatesFor("samsung", "tablet")
	require.Len(t, tablets, 1)
	assert.Equal(t, "sm-t870", tablets[0].ModelID)
}

func TestCandidatesForUnknownCombination(t *testing.T) {
	idx := Build(testCatalog())

	assert.Empty(t, idx.CandidatesFor("samsung", "watch"))
	assert.Empty(t, idx.CandidatesFor("nokia", "phone"))
	assert.Empty(t, idx.CandidatesFor(types.Unresolved, types.Unresolved))
}

func TestHasBrand(t *testing.T) {
	idx := Build(testCatalog())

	assert.True(t, idx.HasBrand("samsung"))
	assert.True(t, idx.HasBrand("apple"))
	assert.False(t, idx.HasBrand("nokia"))
}

func TestBuildEmptyCatalog(t *testing.T) {
	idx := Build(nil)

	assert.Equal(t, 0, idx.Size())
	assert.Empty(t, idx.CandidatesFor("samsung", "phone"))
}
