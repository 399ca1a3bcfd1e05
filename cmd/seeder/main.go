// Command seeder imports a YAML glossary into the database. Each batch of
// entries is written in one transaction; a failing batch is rolled back and
// reported without stopping the import.
//
// Flags:
//
//	--glossary       path to the glossary YAML file (overrides the seeder config)
//	--dry-run        validate the file without writing to DB
//	--seeder-config  path to seeder YAML config file
//
// Exit codes: 0 = success, 1 = error or failed batches.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/ubergloss/internal/app"
)

func main() {
	glossaryFlag := flag.String("glossary", "", "path to the glossary YAML file")
	dryRunFlag := flag.Bool("dry-run", false, "validate the glossary without writing to DB")
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	res, err := app.RunSeed(ctx, *seederConfigFlag, *glossaryFlag, *dryRunFlag)
	if err != nil {
		slog.Error("seeder failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if res.Failed > 0 {
		slog.Warn("seeder completed with failed batches", slog.Int("failed", res.Failed))
		os.Exit(1)
	}

	slog.Info("seeder completed successfully", slog.Int("inserted", res.Inserted), slog.Int("skipped", res.Skipped))
}
