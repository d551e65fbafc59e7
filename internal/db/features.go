package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/encoding/wkt"

	"github.com/joeblew999/plat-mission/internal/geodoc"
)

// FeatureTableName is the table the loaded layers are mirrored into.
const FeatureTableName = "features"

const createFeatures = `CREATE TABLE IF NOT EXISTS features (
	layer        VARCHAR NOT NULL,
	idx          INTEGER NOT NULL,
	kind         VARCHAR NOT NULL,
	properties   VARCHAR,
	geometry_wkt VARCHAR NOT NULL,
	min_lon      DOUBLE,
	min_lat      DOUBLE,
	max_lon      DOUBLE,
	max_lat      DOUBLE
)`

// FeatureTable mirrors loaded layer documents into DuckDB, one row per
// feature, so they can be queried with SQL.
type FeatureTable struct {
	db *sql.DB
}

// NewFeatureTable creates the table if needed.
func NewFeatureTable(ctx context.Context, db *sql.DB) (*FeatureTable, error) {
	if _, err := db.ExecContext(ctx, createFeatures); err != nil {
		return nil, fmt.Errorf("create %s table: %w", FeatureTableName, err)
	}
	return &FeatureTable{db: db}, nil
}

// Replace swaps the rows of layer for the features of doc. Features without
// geometry are skipped. A nil doc only deletes.
func (t *FeatureTable) Replace(ctx context.Context, layer string, doc *geodoc.Document) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace %s: %w", layer, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM features WHERE layer = ?`, layer); err != nil {
		return fmt.Errorf("replace %s: %w", layer, err)
	}

	if doc != nil {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO features
			(layer, idx, kind, properties, geometry_wkt, min_lon, min_lat, max_lon, max_lat)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("replace %s: %w", layer, err)
		}
		defer stmt.Close()

		for i, f := range doc.Features {
			if f.Geometry == nil {
				continue
			}
			props, err := json.Marshal(f.Properties)
			if err != nil {
				return fmt.Errorf("replace %s: feature %d: %w", layer, i, err)
			}
			b := f.Geometry.Bound()
			if _, err := stmt.ExecContext(ctx,
				layer, i, f.Geometry.GeoJSONType(), string(props), wkt.MarshalString(f.Geometry),
				b.Min[0], b.Min[1], b.Max[0], b.Max[1],
			); err != nil {
				return fmt.Errorf("replace %s: feature %d: %w", layer, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace %s: %w", layer, err)
	}
	return nil
}

// Count returns the number of rows stored for layer.
func (t *FeatureTable) Count(ctx context.Context, layer string) (int, error) {
	var n int
	err := t.db.QueryRowContext(ctx, `SELECT count(*) FROM features WHERE layer = ?`, layer).Scan(&n)
	return n, err
}
