package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/joho/godotenv"

	"barkeep/internal/config"
	"barkeep/internal/db"
	"barkeep/internal/importer"
	"barkeep/internal/menu"
)

func main() {
	source := flag.String("source", "", "snapshot to import: a JSON file path or http(s) URL (defaults to CATALOG_SOURCE)")
	backfill := flag.Bool("backfill", false, "refresh catalog fields on already imported recipes instead of adding new ones")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(context.Background(), *source, *backfill); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, source string, backfill bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if strings.TrimSpace(source) == "" {
		source = cfg.Catalog.Source
	}
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("snapshot source must not be empty")
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	records, err := importer.ReadSource(ctx, resty.New(), source)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	store := menu.NewStore(database)

	if backfill {
		updated := importer.Backfill(ctx, records, store)
		fmt.Fprintf(os.Stdout, "Backfilled %d of %d recipes from %s\n", updated, len(records), source)
		return nil
	}

	imported := importer.Migrate(ctx, records, store)
	fmt.Fprintf(os.Stdout, "Imported %d of %d recipes from %s\n", imported, len(records), source)
	return nil
}
