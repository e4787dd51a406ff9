// Package clickhousestore provides the ClickHouse implementation of the
// mapping ledger. The table is append-only: a review re-inserts the row at
// a higher version and reads collapse through FINAL, so the original
// decision is never destroyed.
package clickhousestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"

	"partsync/pkg/confidence"
	reconcileerrors "partsync/pkg/errors"
	"partsync/pkg/types"
)

// Config holds ClickHouse connection configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Debug    bool
}

// DefaultConfig returns default development configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     9000,
		Database: "partsync",
		Username: "default",
		Password: "",
		Debug:    false,
	}
}

// Store implements ledger.Repository on ClickHouse.
//
// Schema (created out of band, shown for reference):
//
//	CREATE TABLE mapping_records (
//	    id UUID, run_id UUID, supplier_listing_id String, brand String,
//	    model_id Nullable(String), confidence Float64, method String,
//	    mapped_at DateTime64(3), reviewed_by Nullable(String),
//	    approved Nullable(UInt8), _version UInt64
//	) ENGINE = ReplacingMergeTree(_version)
//	ORDER BY (supplier_listing_id, run_id)
//
// The ORDER BY key makes appends idempotent per (listing, run): a resumed
// chunk re-flush collapses into the existing row.
type Store struct {
	conn clickhouse.Conn
	cfg  *Config
}

// NewStore connects to ClickHouse.
func NewStore(cfg *Config) (*Store, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: cfg.Debug,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	return &Store{conn: conn, cfg: cfg}, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// =============================================================================
// APPEND OPERATIONS
// =============================================================================

func (s *Store) AppendMapping(ctx context.Context, record types.MappingRecord) error {
	query := `
		INSERT INTO mapping_records (
			id, run_id, supplier_listing_id, brand, model_id, confidence,
			method, mapped_at, reviewed_by, approved, _version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`
	return s.conn.Exec(ctx, query,
		record.ID, record.RunID, record.SupplierListingID, record.Brand,
		record.ModelID, record.Confidence, string(record.Method),
		record.MappedAt, record.ReviewedBy, boolPtrToUInt8(record.Approved),
	)
}

func (s *Store) AppendBatch(ctx context.Context, records []types.MappingRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO mapping_records (
			id, run_id, supplier_listing_id, brand, model_id, confidence,
			method, mapped_at, reviewed_by, approved, _version
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, record := range records {
		if err := batch.Append(
			record.ID, record.RunID, record.SupplierListingID, record.Brand,
			record.ModelID, record.Confidence, string(record.Method),
			record.MappedAt, record.ReviewedBy, boolPtrToUInt8(record.Approved),
			uint64(1),
		); err != nil {
			return fmt.Errorf("failed to append to batch: %w", err)
		}
	}
	return batch.Send()
}

// =============================================================================
// REVIEW OPERATIONS
// =============================================================================

// ReviewMapping re-inserts the entry with the review verdict at the next
// version. Confidence, method, and mapped_at carry over untouched.
func (s *Store) ReviewMapping(ctx context.Context, mappingID uuid.UUID, reviewer string, approved bool) (types.MappingRecord, error) {
	existing, err := s.getByID(ctx, mappingID)
	if err != nil {
		return types.MappingRecord{}, err
	}

	query := `
		INSERT INTO mapping_records
		SELECT id, run_id, supplier_listing_id, brand, model_id, confidence,
		       method, mapped_at, ? as reviewed_by, ? as approved,
		       _version + 1 as _version
		FROM mapping_records FINAL
		WHERE id = ?
	`
	if err := s.conn.Exec(ctx, query, reviewer, boolToUInt8(approved), mappingID); err != nil {
		return types.MappingRecord{}, fmt.Errorf("failed to review mapping: %w", err)
	}

	existing.ReviewedBy = &reviewer
	existing.Approved = &approved
	return existing, nil
}

func (s *Store) getByID(ctx context.Context, mappingID uuid.UUID) (types.MappingRecord, error) {
	query := `
		SELECT id, run_id, supplier_listing_id, brand, model_id, confidence,
		       method, mapped_at, reviewed_by, approved
		FROM mapping_records FINAL
		WHERE id = ?
		LIMIT 1
	`
	row := s.conn.QueryRow(ctx, query, mappingID)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return types.MappingRecord{}, reconcileerrors.NewMappingNotFoundError(mappingID.String())
	}
	if err != nil {
		return types.MappingRecord{}, fmt.Errorf("failed to get mapping: %w", err)
	}
	return rec, nil
}

// =============================================================================
// REPORTING OPERATIONS
// =============================================================================

func (s *Store) QueryLowConfidence(ctx context.Context, threshold float64) ([]types.MappingRecord, error) {
	query := `
		SELECT id, run_id, supplier_listing_id, brand, model_id, confidence,
		       method, mapped_at, reviewed_by, approved
		FROM mapping_records FINAL
		WHERE model_id IS NOT NULL
		  AND approved IS NULL
		  AND confidence < ?
		ORDER BY mapped_at ASC
	`
	rows, err := s.conn.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query low confidence mappings: %w", err)
	}
	defer rows.Close()

	var out []types.MappingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) QueryUnmapped(ctx context.Context) ([]types.MappingRecord, error) {
	query := `
		SELECT id, run_id, supplier_listing_id, brand, model_id, confidence,
		       method, mapped_at, reviewed_by, approved
		FROM mapping_records FINAL
		WHERE model_id IS NULL
		ORDER BY mapped_at ASC
	`
	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unmapped listings: %w", err)
	}
	defer rows.Close()

	var out []types.MappingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) QualityReport(ctx context.Context, lowConfidenceThreshold float64) (types.QualityReport, error) {
	report := types.QualityReport{
		ByMethod: make(map[types.MatchMethod]int),
		ByBrand:  make(map[string]int),
	}

	summaryQuery := `
		SELECT count(), avg(confidence)
		FROM mapping_records FINAL
		WHERE model_id IS NOT NULL
	`
	var total uint64
	var mean float64
	if err := s.conn.QueryRow(ctx, summaryQuery).Scan(&total, &mean); err != nil {
		return report, fmt.Errorf("failed to aggregate ledger summary: %w", err)
	}
	report.TotalMappings = int(total)
	report.MeanConfidence = confidence.Clamp(mean)

	methodQuery := `
		SELECT method, count()
		FROM mapping_records FINAL
		WHERE model_id IS NOT NULL
		GROUP BY method
	`
	rows, err := s.conn.Query(ctx, methodQuery)
	if err != nil {
		return report, fmt.Errorf("failed to aggregate by method: %w", err)
	}
	for rows.Next() {
		var method string
		var count uint64
		if err := rows.Scan(&method, &count); err != nil {
			rows.Close()
			return report, fmt.Errorf("failed to scan method row: %w", err)
		}
		report.ByMethod[types.MatchMethod(method)] = int(count)
	}
	rows.Close()

	brandQuery := `
		SELECT brand, count()
		FROM mapping_records FINAL
		WHERE model_id IS NOT NULL
		GROUP BY brand
	`
	rows, err = s.conn.Query(ctx, brandQuery)
	if err != nil {
		return report, fmt.Errorf("failed to aggregate by brand: %w", err)
	}
	for rows.Next() {
		var brand string
		var count uint64
		if err := rows.Scan(&brand, &count); err != nil {
			rows.Close()
			return report, fmt.Errorf("failed to scan brand row: %w", err)
		}
		report.ByBrand[brand] = int(count)
	}
	rows.Close()

	low, err := s.QueryLowConfidence(ctx, lowConfidenceThreshold)
	if err != nil {
		return report, err
	}
	report.LowConfidence = low
	return report, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (types.MappingRecord, error) {
	var rec types.MappingRecord
	var approved *uint8
	err := row.Scan(
		&rec.ID, &rec.RunID, &rec.SupplierListingID, &rec.Brand,
		&rec.ModelID, &rec.Confidence, (*string)(&rec.Method),
		&rec.MappedAt, &rec.ReviewedBy, &approved,
	)
	if err != nil {
		return types.MappingRecord{}, err
	}
	if approved != nil {
		b := *approved == 1
		rec.Approved = &b
	}
	return rec, nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func boolPtrToUInt8(b *bool) *uint8 {
	if b == nil {
		return nil
	}
	v := boolToUInt8(*b)
	return &v
}
