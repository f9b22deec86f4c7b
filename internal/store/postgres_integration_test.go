//go:build integration

package store

import (
	"context"
	"os"
	"testing"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE region_records")
		s.Close()
	})

	return s
}

func TestUpsertAndLoadRegions(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	recs := []*RegionRecord{
		{Name: "Ohio", Values: map[string]string{"male_pop": "5700000", "pct_white": "0.77"}},
		{Name: "Alabama", Values: map[string]string{"male_pop": "2400000", "pct_white": "0.65"}},
		{Name: ""},
	}
	n, err := s.UpsertRegions(ctx, recs)
	if err != nil {
		t.Fatalf("UpsertRegions failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 upserts, got %d", n)
	}

	// Upsert again with a changed value; row count must not grow.
	recs[0].Values["pct_white"] = "0.70"
	if _, err := s.UpsertRegions(ctx, recs[:1]); err != nil {
		t.Fatalf("second UpsertRegions failed: %v", err)
	}

	loaded, err := s.LoadRegions(ctx)
	if err != nil {
		t.Fatalf("LoadRegions failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(loaded))
	}
	if loaded[0].Name != "Alabama" {
		t.Errorf("expected rows ordered by name, got %s first", loaded[0].Name)
	}
	if v, _ := loaded[1].Value("pct_white"); v != "0.70" {
		t.Errorf("expected updated pct_white 0.70, got %q", v)
	}
}
