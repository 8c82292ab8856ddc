package importer

import (
	"fmt"
	"sync"

	"github.com/partsbridge/backend-go/internal/domain"
	"github.com/partsbridge/backend-go/internal/idgen"
	"github.com/rs/zerolog/log"
)

type reconcileResult struct {
	creates []domain.Product
	updates []domain.Product
}

// reconcileChunkFn is swapped out by tests to inject shard failures.
var reconcileChunkFn = reconcileChunk

// reconcile routes every draft to the create or update list by matching it
// structurally (name + canonical specifications) against the shared
// read-only index. The draft list is split into contiguous shards; if any
// shard fails, the whole pass is redone single-threaded and the degradation
// is reported. A failure of the single-threaded pass itself is returned as
// an error.
func reconcile(drafts []domain.ProductDraft, idx *existingIndex, mode Mode, shards int) (reconcileResult, bool, error) {
	if len(drafts) == 0 {
		return reconcileResult{}, false, nil
	}

	n := shards
	if n > len(drafts) {
		n = len(drafts)
	}
	if n <= 1 {
		res, err := reconcileAll(drafts, idx, mode)
		return res, false, err
	}

	var (
		wg      sync.WaitGroup
		results = make([]reconcileResult, n)
		failed  = make([]bool, n)
	)
	chunk := (len(drafts) + n - 1) / n
	for i := 0; i < n; i++ {
		start := i * chunk
		end := start + chunk
		if end > len(drafts) {
			end = len(drafts)
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(shard, start, end int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failed[shard] = true
					log.Error().Interface("panic", r).Int("shard", shard).Msg("reconciliation shard failed")
				}
			}()
			results[shard] = reconcileChunkFn(drafts[start:end], idx, mode)
		}(i, start, end)
	}
	wg.Wait()

	for _, f := range failed {
		if f {
			log.Warn().Msg("retrying reconciliation single-threaded")
			res, err := reconcileAll(drafts, idx, mode)
			if err != nil {
				return reconcileResult{}, false, err
			}
			return res, true, nil
		}
	}

	var merged reconcileResult
	for _, res := range results {
		merged.creates = append(merged.creates, res.creates...)
		merged.updates = append(merged.updates, res.updates...)
	}
	return merged, false, nil
}

// reconcileAll runs a single-threaded pass over the full draft list, turning
// a panic into an error instead of letting it escape the run.
func reconcileAll(drafts []domain.ProductDraft, idx *existingIndex, mode Mode) (res reconcileResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reconcile drafts: %v", r)
		}
	}()
	return reconcileChunkFn(drafts, idx, mode), nil
}

func reconcileChunk(drafts []domain.ProductDraft, idx *existingIndex, mode Mode) reconcileResult {
	var out reconcileResult
	for i := range drafts {
		draft := &drafts[i]
		specKey := draft.Specifications.Canonical()

		matchID := ""
		for _, cand := range idx.lookup(draft.Name) {
			if cand.specKey == specKey {
				matchID = cand.id
				break
			}
		}

		switch {
		case matchID == "":
			// same name with different attributes is a distinct product
			out.creates = append(out.creates, draftToProduct(draft, idgen.New()))
		case mode == ModeOverwrite:
			out.updates = append(out.updates, draftToProduct(draft, matchID))
		}
	}
	return out
}

func draftToProduct(d *domain.ProductDraft, id string) domain.Product {
	return domain.Product{
		ID:             id,
		CPN:            d.CPN,
		Source:         d.Source,
		Name:           d.Name,
		DatasheetLink:  d.DatasheetLink,
		Description:    d.Description,
		Manufacturer:   d.Manufacturer,
		MfrPartNumber:  d.MfrPartNumber,
		StockQty:       d.StockQty,
		SPQ:            d.SPQ,
		MOQ:            d.MOQ,
		LTWks:          d.LTWks,
		Remarks:        d.Remarks,
		Specifications: d.Specifications,
		CategoryID:     d.CategoryID,
	}
}
