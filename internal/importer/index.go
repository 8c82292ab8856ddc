package importer

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// indexedProduct is one existing record with its specifications already
// canonicalized, so every reconciliation comparison is a string equality
// instead of a re-serialization.
type indexedProduct struct {
	id      string
	specKey string
}

// existingIndex maps a product name to the existing records sharing it.
// Built once per run and read-only afterwards, so reconciliation shards can
// share it without locking.
type existingIndex struct {
	byName map[string][]indexedProduct
}

// buildExistingIndex fetches candidates for every name seen in the file, in
// pages of pageSize names, concurrently. A fetch failure is fatal to the
// run: reconciling against a partial index would recreate existing rows.
func buildExistingIndex(ctx context.Context, store ProductStore, names map[string]struct{}, pageSize int) (*existingIndex, error) {
	idx := &existingIndex{byName: make(map[string][]indexedProduct, len(names))}
	if len(names) == 0 {
		return idx, nil
	}

	nameList := make([]string, 0, len(names))
	for name := range names {
		nameList = append(nameList, name)
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	for start := 0; start < len(nameList); start += pageSize {
		end := start + pageSize
		if end > len(nameList) {
			end = len(nameList)
		}
		page := nameList[start:end]
		offset := start

		g.Go(func() error {
			records, err := store.FindByNames(ctx, page)
			if err != nil {
				return fmt.Errorf("fetch existing products (page at %d): %w", offset, err)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, rec := range records {
				idx.byName[rec.Name] = append(idx.byName[rec.Name], indexedProduct{
					id:      rec.ID,
					specKey: rec.Specifications.Canonical(),
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *existingIndex) lookup(name string) []indexedProduct {
	return idx.byName[name]
}
