// Package catalogstore loads the canonical catalog snapshot and the raw
// listings feed from their owning collaborators. The engine never fetches
// supplier sites itself; it consumes what the scraper and the admin DB
// already hold.
package catalogstore

import (
	"context"

	"partsync/pkg/types"
)

// CatalogLoader provides the canonical model snapshot. Must complete
// before any matching begins; a failure is fatal for the run.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]types.CanonicalModel, error)
}

// FeedLoader provides the raw supplier listings of one scrape cycle.
type FeedLoader interface {
	LoadListings(ctx context.Context) ([]types.SupplierListing, error)
}
