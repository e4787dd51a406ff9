package catalogstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"partsync/pkg/types"
)

// FileCatalogLoader reads a catalog snapshot from a YAML or JSON file.
// Used by CLI runs and tests where no admin database is reachable.
type FileCatalogLoader struct {
	Path string
}

type catalogFile struct {
	Models []types.CanonicalModel `json:"models" yaml:"models"`
}

func (f FileCatalogLoader) LoadCatalog(ctx context.Context) ([]types.CanonicalModel, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog file: %w", err)
	}

	var doc catalogFile
	if isYAML(f.Path) {
		err = yaml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", f.Path, err)
	}
	if len(doc.Models) == 0 {
		return nil, fmt.Errorf("catalog file %s: no models", f.Path)
	}
	return doc.Models, nil
}

// FileFeedLoader reads a scraped listings feed from a JSON file, the
// interchange format the scraping collaborator emits.
type FileFeedLoader struct {
	Path string
}

type feedFile struct {
	Listings []types.SupplierListing `json:"listings"`
}

func (f FileFeedLoader) LoadListings(ctx context.Context) ([]types.SupplierListing, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("feed file: %w", err)
	}
	var doc feedFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("feed file %s: %w", f.Path, err)
	}
	return doc.Listings, nil
}

func isYAML(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}
