package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the region source table. Every dataset column other than
// the region name lives in the cells object.
const Schema = `
CREATE TABLE IF NOT EXISTS region_records (
	region_name TEXT PRIMARY KEY,
	cells       JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// EnsureSchema creates the region table if it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// LoadRegions reads every region row ordered by name.
func (s *PostgresStore) LoadRegions(ctx context.Context) ([]*RegionRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT region_name, cells FROM region_records ORDER BY region_name`)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*RegionRecord, error) {
		var name string
		var cellsJSON []byte
		if err := row.Scan(&name, &cellsJSON); err != nil {
			return nil, err
		}
		var cells map[string]any
		if err := json.Unmarshal(cellsJSON, &cells); err != nil {
			return nil, fmt.Errorf("region %s: decode cells: %w", name, err)
		}
		rec := &RegionRecord{Name: name, Values: make(map[string]string, len(cells))}
		for k, v := range cells {
			rec.Values[k] = cellString(v)
		}
		return rec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan regions: %w", err)
	}
	return records, nil
}

// UpsertRegions writes records in one batch, replacing rows with the same name.
func (s *PostgresStore) UpsertRegions(ctx context.Context, records []*RegionRecord) (int, error) {
	batch := &pgx.Batch{}
	for _, r := range records {
		if r == nil || r.Name == "" {
			continue
		}
		cellsJSON, err := json.Marshal(r.Values)
		if err != nil {
			return 0, fmt.Errorf("region %s: encode cells: %w", r.Name, err)
		}
		batch.Queue(`
			INSERT INTO region_records (region_name, cells, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (region_name) DO UPDATE SET cells = EXCLUDED.cells, updated_at = now()`,
			r.Name, string(cellsJSON),
		)
	}
	if batch.Len() == 0 {
		return 0, nil
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return i, fmt.Errorf("upsert region %d: %w", i, err)
		}
	}
	return batch.Len(), nil
}

// cellString renders a decoded JSON cell the way it would appear in the CSV.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
