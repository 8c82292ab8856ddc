package importer

import (
	"context"
	"sync"

	"github.com/partsbridge/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// categoryResolver maps every observed category triple to a persistent
// category id, creating categories lazily on first sighting. The resulting
// map lives for exactly one import run.
type categoryResolver struct {
	store CategoryStore
	limit int
}

func newCategoryResolver(store CategoryStore, limit int) *categoryResolver {
	return &categoryResolver{store: store, limit: limit}
}

// Resolve performs a find-then-create per triple with bounded concurrency.
// A triple that fails to resolve is logged and left out of the map; drafts
// referencing it are dropped by the caller rather than written with a wrong
// category.
func (r *categoryResolver) Resolve(ctx context.Context, keys map[domain.CategoryKey]struct{}) map[domain.CategoryKey]int64 {
	ids := make(map[domain.CategoryKey]int64, len(keys))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(r.limit)

	for key := range keys {
		g.Go(func() error {
			id, err := r.resolveOne(ctx, key)
			if err != nil {
				log.Error().Err(err).
					Str("mainCategory", key.MainCategory).
					Str("category", key.Category).
					Str("subCategory", key.SubCategory).
					Msg("failed to resolve category")
				return nil
			}
			mu.Lock()
			ids[key] = id
			mu.Unlock()
			return nil
		})
	}

	g.Wait()
	return ids
}

func (r *categoryResolver) resolveOne(ctx context.Context, key domain.CategoryKey) (int64, error) {
	cat, err := r.store.FindByKey(ctx, key)
	if err != nil {
		return 0, err
	}
	if cat == nil {
		cat, err = r.store.Create(ctx, key)
		if err != nil {
			return 0, err
		}
	}
	return cat.ID, nil
}
