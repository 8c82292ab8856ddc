// Package importer implements the CSV bulk import/reconciliation engine:
// stream-parse a spreadsheet into product drafts, resolve the category
// hierarchy it implies, deduplicate structurally against existing records,
// and flush creates/updates to storage in bounded batches.
package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/partsbridge/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

type Importer struct {
	categories CategoryStore
	products   ProductStore
	cfg        Config
}

func New(categories CategoryStore, products ProductStore, cfg Config) *Importer {
	return &Importer{
		categories: categories,
		products:   products,
		cfg:        cfg.withDefaults(),
	}
}

// Run executes one import over the given CSV stream. Row, category and
// batch failures are absorbed into the summary; only setup and stream
// failures return an error.
func (imp *Importer) Run(ctx context.Context, r io.Reader, mode Mode) (*domain.ImportSummary, error) {
	started := time.Now()

	parsed, err := parseFile(r)
	if err != nil {
		return nil, fmt.Errorf("parse import file: %w", err)
	}
	log.Info().
		Int("rows", parsed.ParsedRows).
		Int("categories", len(parsed.CategoryKeys)).
		Str("mode", string(mode)).
		Msg("parsed import file")

	ids := newCategoryResolver(imp.categories, imp.cfg.CategoryBatchSize).Resolve(ctx, parsed.CategoryKeys)

	dropped := parsed.DroppedRows
	valid := make([]domain.ProductDraft, 0, len(parsed.Drafts))
	for _, draft := range parsed.Drafts {
		id, ok := ids[draft.CategoryKey]
		if !ok {
			log.Warn().Str("name", draft.Name).Msg("skipping product: category could not be resolved")
			dropped++
			continue
		}
		draft.CategoryID = id
		valid = append(valid, draft)
	}

	idx, err := buildExistingIndex(ctx, imp.products, parsed.Names, imp.cfg.FetchPageSize)
	if err != nil {
		return nil, err
	}

	outcome, degraded, err := reconcile(valid, idx, mode, imp.cfg.ShardCount)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("create", len(outcome.creates)).
		Int("update", len(outcome.updates)).
		Msg("reconciled drafts against existing products")

	created, updated, batchErrs := newBatchWriter(imp.products, imp.cfg).Write(ctx, outcome.creates, outcome.updates)

	summary := &domain.ImportSummary{
		ParsedRows:   parsed.ParsedRows,
		DroppedRows:  dropped,
		CreatedCount: int(created),
		UpdatedCount: int(updated),
		Degraded:     degraded,
		BatchErrors:  batchErrs,
	}

	log.Info().
		Int("created", summary.CreatedCount).
		Int("updated", summary.UpdatedCount).
		Int("batchErrors", len(batchErrs)).
		Dur("took", time.Since(started)).
		Msg("import run completed")

	return summary, nil
}
