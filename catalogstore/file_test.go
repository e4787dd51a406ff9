package catalogstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileCatalogLoaderYAML(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
models:
  - model_id: sm-g991
    brand_id: samsung
    device_type: phone
    name: Galaxy S21
    aliases:
      - SM-G991B
  - model_id: a2403
    brand_id: apple
    device_type: phone
    name: iPhone 12
`)

	models, err := FileCatalogLoader{Path: path}.LoadCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "sm-g991", models[0].ModelID)
	assert.Equal(t, []string{"SM-G991B"}, models[0].Aliases)
	assert.Equal(t, "apple", models[1].BrandID)
}

func TestFileCatalogLoaderJSON(t *testing.T) {
	path := writeFile(t, "catalog.json", `{
  "models": [
    {"model_id": "sm-g991", "brand_id": "samsung", "device_type": "phone", "name": "Galaxy S21"}
  ]
}`)

	models, err := FileCatalogLoader{Path: path}.LoadCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "Galaxy S21", models[0].Name)
}

func TestFileCatalogLoaderEmptyCatalog(t *testing.T) {
	path := writeFile(t, "catalog.yaml", "models: []\n")

	_, err := FileCatalogLoader{Path: path}.LoadCatalog(context.Background())
	require.Error(t, err)
}

func TestFileCatalogLoaderMissingFile(t *testing.T) {
	_, err := FileCatalogLoader{Path: "/nonexistent/catalog.yaml"}.LoadCatalog(context.Background())
	require.Error(t, err)
}

func TestFileFeedLoader(t *testing.T) {
	path := writeFile(t, "feed.json", `{
  "listings": [
    {
      "supplier_id": "alpha",
      "external_id": "1",
      "raw_title": "Samsung Galaxy S21 LCD Screen",
      "sku": "A-1",
      "price": "79.99",
      "available": true,
      "tags": ["oem"]
    }
  ]
}`)

	listings, err := FileFeedLoader{Path: path}.LoadListings(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)

	l := listings[0]
	assert.Equal(t, "alpha:1", l.ID())
	assert.True(t, l.Price.Equal(decimal.RequireFromString("79.99")))
	assert.True(t, l.Available)
	assert.Equal(t, []string{"oem"}, l.Tags)
}

func TestFileFeedLoaderMalformed(t *testing.T) {
	path := writeFile(t, "feed.json", "{not json")

	_, err := FileFeedLoader{Path: path}.LoadListings(context.Background())
	require.Error(t, err)
}
