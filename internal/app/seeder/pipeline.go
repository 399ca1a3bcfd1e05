package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ubergloss/internal/domain"
)

// Result holds the outcome of an import run.
type Result struct {
	Inserted int
	Skipped  int
	// Failed counts entries in batches that were rolled back.
	Failed   int
	Batches  int
	Duration time.Duration
}

// Pipeline imports a glossary in batches. Each batch is one transaction.
type Pipeline struct {
	log     *slog.Logger
	tx      txManager
	entries entryWriter
	tags    tagWriter
	locales localeWriter
	cfg     Config

	tagIDs    map[string]uuid.UUID
	localeIDs map[string]uuid.UUID
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, tx txManager, entries entryWriter, tags tagWriter, locales localeWriter, cfg Config) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	return &Pipeline{
		log:       log.With("component", "seeder"),
		tx:        tx,
		entries:   entries,
		tags:      tags,
		locales:   locales,
		cfg:       cfg,
		tagIDs:    make(map[string]uuid.UUID),
		localeIDs: make(map[string]uuid.UUID),
	}
}

// Run imports g. Entries repeating an earlier (term, definition) pair are
// skipped. A failing batch is rolled back and counted; later batches still
// run. Run returns an error only when ctx is done.
func (p *Pipeline) Run(ctx context.Context, g *Glossary) (Result, error) {
	start := time.Now()
	var res Result

	records := dedupe(g.Entries)
	res.Skipped = len(g.Entries) - len(records)

	names := localeNames(g.Locales)

	if p.cfg.DryRun {
		res.Skipped += len(records)
		res.Duration = time.Since(start)
		p.log.Info("dry run", slog.Int("entries", len(records)))
		return res, nil
	}

	for i := 0; i < len(records); i += p.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, err
		}

		batch := records[i:min(i+p.cfg.BatchSize, len(records))]
		res.Batches++

		if err := p.importBatch(ctx, batch, names); err != nil {
			res.Failed += len(batch)
			p.log.WarnContext(ctx, "batch failed",
				slog.Int("batch", res.Batches),
				slog.Int("entries", len(batch)),
				slog.String("first_term", batch[0].Term),
				slog.String("error", err.Error()),
			)
			continue
		}
		res.Inserted += len(batch)
	}

	res.Duration = time.Since(start)
	p.log.InfoContext(ctx, "import completed",
		slog.Int("inserted", res.Inserted),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed),
		slog.Int("batches", res.Batches),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

// importBatch writes one batch in a transaction. Tag and locale IDs created
// inside it are cached only once the transaction commits.
func (p *Pipeline) importBatch(ctx context.Context, batch []EntryRecord, names map[string]string) error {
	tagIDs := make(map[string]uuid.UUID)
	localeIDs := make(map[string]uuid.UUID)

	err := p.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, rec := range batch {
			entry, err := p.entries.Create(ctx, domain.Entry{
				Term:       rec.Term,
				Definition: rec.Definition,
				Rank:       rec.Rank,
			})
			if err != nil {
				return fmt.Errorf("create %q: %w", rec.Term, err)
			}

			for _, name := range rec.Tags {
				id, err := p.tagID(ctx, name, tagIDs)
				if err != nil {
					return err
				}
				if err := p.tags.Link(ctx, entry.ID, id); err != nil {
					return fmt.Errorf("tag %q on %q: %w", name, rec.Term, err)
				}
			}

			for _, code := range rec.Locales {
				id, err := p.localeID(ctx, code, names[strings.ToLower(code)], localeIDs)
				if err != nil {
					return err
				}
				if err := p.locales.Link(ctx, entry.ID, id); err != nil {
					return fmt.Errorf("locale %q on %q: %w", code, rec.Term, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for k, v := range tagIDs {
		p.tagIDs[k] = v
	}
	for k, v := range localeIDs {
		p.localeIDs[k] = v
	}
	return nil
}

func (p *Pipeline) tagID(ctx context.Context, name string, pending map[string]uuid.UUID) (uuid.UUID, error) {
	key := strings.ToLower(name)
	if id, ok := p.tagIDs[key]; ok {
		return id, nil
	}
	if id, ok := pending[key]; ok {
		return id, nil
	}
	t, err := p.tags.Upsert(ctx, name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert tag %q: %w", name, err)
	}
	pending[key] = t.ID
	return t.ID, nil
}

func (p *Pipeline) localeID(ctx context.Context, code, name string, pending map[string]uuid.UUID) (uuid.UUID, error) {
	key := strings.ToLower(code)
	if id, ok := p.localeIDs[key]; ok {
		return id, nil
	}
	if id, ok := pending[key]; ok {
		return id, nil
	}
	l, err := p.locales.Upsert(ctx, code, name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert locale %q: %w", code, err)
	}
	pending[key] = l.ID
	return l.ID, nil
}

// dedupe drops records whose content key repeats an earlier record, keeping
// file order. Terms differing only in case are distinct entries.
func dedupe(records []EntryRecord) []EntryRecord {
	seen := make(map[domain.EntryKey]bool, len(records))
	out := make([]EntryRecord, 0, len(records))
	for _, r := range records {
		k := domain.KeyOf(r.Term, r.Definition)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

func localeNames(records []LocaleRecord) map[string]string {
	names := make(map[string]string, len(records))
	for _, l := range records {
		names[strings.ToLower(l.Code)] = l.Name
	}
	return names
}
