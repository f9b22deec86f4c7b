// seed_regions.go: standalone script to load the regional demographics CSV into Postgres.
//
// Usage:
//
//	go run scripts/seed_regions.go -csv data/final_state_dataset.csv -db postgres://localhost/bellwether
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/MikeSquared-Agency/Bellwether/internal/store"
)

func main() {
	csvPath := flag.String("csv", "data/final_state_dataset.csv", "path to the regional demographics CSV")
	dbURL := flag.String("db", os.Getenv("BELLWETHER_DATABASE_URL"), "Postgres connection URL")
	nameColumn := flag.String("name-column", store.DefaultRegionNameColumn, "CSV column holding the region name")
	dryRun := flag.Bool("dry-run", false, "parse and print regions without writing")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	records, err := store.NewCSVRegionSource(*csvPath, *nameColumn).LoadRegions(ctx)
	if err != nil {
		log.Fatalf("load csv: %v", err)
	}

	if *dryRun {
		for _, r := range records {
			fmt.Printf("%-24s %d columns\n", r.Name, len(r.Values))
		}
		fmt.Printf("\n%d regions parsed\n", len(records))
		return
	}

	if *dbURL == "" {
		log.Fatal("database URL required (-db or BELLWETHER_DATABASE_URL)")
	}
	db, err := store.NewPostgresStore(ctx, *dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	n, err := db.UpsertRegions(ctx, records)
	if err != nil {
		log.Fatalf("upsert regions: %v", err)
	}
	fmt.Printf("Seeded %d regions from %s\n", n, *csvPath)
}
