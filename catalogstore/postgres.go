package catalogstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"partsync/pkg/types"
)

// PostgresStore reads the canonical catalog and the staged listings feed
// from the booking platform's admin database. Read-only: the engine never
// writes back to the owning collaborator's tables.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and verifies it.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// LoadCatalog reads the full canonical model snapshot, ordered for
// deterministic index construction.
func (s *PostgresStore) LoadCatalog(ctx context.Context) ([]types.CanonicalModel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT model_id, brand_id, device_type, name, display_name, aliases
		FROM canonical_models
		ORDER BY brand_id, device_type, model_id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load catalog: %w", err)
	}
	defer rows.Close()

	var models []types.CanonicalModel
	for rows.Next() {
		var m types.CanonicalModel
		var aliases pq.StringArray
		if err := rows.Scan(&m.ModelID, &m.BrandID, &m.DeviceType, &m.Name, &m.DisplayName, &aliases); err != nil {
			return nil, fmt.Errorf("postgres: scan model: %w", err)
		}
		m.Aliases = []string(aliases)
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: catalog rows: %w", err)
	}
	return models, nil
}

// LoadListings reads the latest scrape cycle's staged listings.
func (s *PostgresStore) LoadListings(ctx context.Context) ([]types.SupplierListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT supplier_id, external_id, raw_title, sku, price, available, tags
		FROM supplier_listings
		WHERE superseded_at IS NULL
		ORDER BY supplier_id, external_id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load listings: %w", err)
	}
	defer rows.Close()

	var listings []types.SupplierListing
	for rows.Next() {
		var l types.SupplierListing
		var price string
		var tags pq.StringArray
		if err := rows.Scan(&l.SupplierID, &l.ExternalID, &l.RawTitle, &l.SKU, &price, &l.Available, &tags); err != nil {
			return nil, fmt.Errorf("postgres: scan listing: %w", err)
		}
		p, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("postgres: bad price for %s:%s: %w", l.SupplierID, l.ExternalID, err)
		}
		l.Price = p
		l.Tags = []string(tags)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: listing rows: %w", err)
	}
	return listings, nil
}
