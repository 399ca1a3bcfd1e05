package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/heartmarshall/ubergloss/internal/adapter/postgres"
	"github.com/heartmarshall/ubergloss/internal/app/seeder"
	"github.com/heartmarshall/ubergloss/internal/config"
	"github.com/heartmarshall/ubergloss/internal/domain"
)

// RunSearch resolves one query against the configured database and prints
// the result to out. It reports whether the result may be incomplete.
func RunSearch(ctx context.Context, query string, out io.Writer) (partial bool, err error) {
	cfg, err := config.Load()
	if err != nil {
		return false, err
	}
	logger := NewLogger(cfg.Log)

	st, err := OpenStorage(ctx, cfg.Database)
	if err != nil {
		return false, err
	}
	defer st.Close()

	result, err := st.NewQueryService(logger, cfg.Search).Search(ctx, query)
	if err != nil {
		return false, err
	}
	return result.Partial(), WriteResult(out, result)
}

// RunMigrate applies a goose migration command to the configured database.
func RunMigrate(ctx context.Context, command string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := NewLogger(cfg.Log)

	st, err := OpenStorage(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	return postgres.Migrate(ctx, st.Pool, command, out, logger)
}

// WriteResult prints the filters, the matching entries and any absorbed
// failures as plain text.
func WriteResult(out io.Writer, r domain.SearchResult) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "FILTERS")
	for _, f := range r.Filters.Slice() {
		verified := ""
		if f.Verified {
			verified = "verified"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", strings.ToLower(f.Type.String()), f.String(), verified)
	}

	entries := r.Entries.Slice()
	fmt.Fprintf(tw, "\nENTRIES (%d)\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", e.Term, e.Rank, e.Definition)
	}

	if r.Partial() {
		fmt.Fprintf(tw, "\nFAILURES (%d), results may be incomplete\n", len(r.Failures))
		for _, f := range r.Failures {
			subject := f.Filter.String()
			if f.Stage == domain.StageAssemble {
				subject = f.EntryID.String()
			}
			fmt.Fprintf(tw, "  %s\t%s\t%v\n", f.Stage, subject, f.Err)
		}
	}

	return tw.Flush()
}

// RunSeed imports the glossary named by the seeder config, or by
// glossaryPath when it is set.
func RunSeed(ctx context.Context, seederConfigPath, glossaryPath string, dryRun bool) (seeder.Result, error) {
	cfg, err := config.Load()
	if err != nil {
		return seeder.Result{}, err
	}
	logger := NewLogger(cfg.Log)

	seedCfg, err := seeder.LoadConfig(seederConfigPath)
	if err != nil {
		return seeder.Result{}, err
	}
	if glossaryPath != "" {
		seedCfg.GlossaryPath = glossaryPath
	}
	if dryRun {
		seedCfg.DryRun = true
	}
	if seedCfg.GlossaryPath == "" {
		return seeder.Result{}, fmt.Errorf("seeder: no glossary path configured")
	}

	g, err := seeder.LoadGlossary(seedCfg.GlossaryPath)
	if err != nil {
		return seeder.Result{}, err
	}
	logger.Info("glossary loaded",
		slog.String("path", seedCfg.GlossaryPath),
		slog.Int("entries", len(g.Entries)),
	)

	st, err := OpenStorage(ctx, cfg.Database)
	if err != nil {
		return seeder.Result{}, err
	}
	defer st.Close()

	return seeder.NewPipeline(logger, st.Tx, st.Definitions, st.Tags, st.Locales, *seedCfg).Run(ctx, g)
}
