package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsbridge/backend-go/internal/domain"
)

func TestResolveCreatesMissingCategories(t *testing.T) {
	store := newMemCategoryStore()
	existing, err := store.Create(context.Background(), domain.CategoryKey{MainCategory: "Passive", Category: "Resistors"})
	require.NoError(t, err)
	store.creates = 0

	keys := make(map[domain.CategoryKey]struct{})
	for _, key := range []domain.CategoryKey{
		{MainCategory: "Passive", Category: "Resistors"},
		{MainCategory: "Passive", Category: "Capacitors"},
		{MainCategory: "Passive", Category: "Capacitors", SubCategory: "MLCC"},
		{MainCategory: "Active", Category: "Diodes"},
	} {
		keys[key] = struct{}{}
	}

	ids := newCategoryResolver(store, 4).Resolve(context.Background(), keys)

	require.Len(t, ids, 4)
	assert.Equal(t, existing.ID, ids[domain.CategoryKey{MainCategory: "Passive", Category: "Resistors"}])
	assert.Equal(t, 3, store.creates)
	assert.Equal(t, 4, store.count())

	// sub-category distinguishes triples
	assert.NotEqual(t,
		ids[domain.CategoryKey{MainCategory: "Passive", Category: "Capacitors"}],
		ids[domain.CategoryKey{MainCategory: "Passive", Category: "Capacitors", SubCategory: "MLCC"}])
}

func TestResolveLeavesFailedTriplesUnmapped(t *testing.T) {
	store := newMemCategoryStore()
	bad := domain.CategoryKey{MainCategory: "Active", Category: "Diodes"}
	store.createErr = func(key domain.CategoryKey) error {
		if key == bad {
			return errors.New("constraint violation")
		}
		return nil
	}

	keys := map[domain.CategoryKey]struct{}{
		bad: {},
		{MainCategory: "Passive", Category: "Resistors"}: {},
	}

	ids := newCategoryResolver(store, 2).Resolve(context.Background(), keys)

	require.Len(t, ids, 1)
	_, ok := ids[bad]
	assert.False(t, ok)
	_, ok = ids[domain.CategoryKey{MainCategory: "Passive", Category: "Resistors"}]
	assert.True(t, ok)
}

func TestResolveManyTriplesBoundedConcurrency(t *testing.T) {
	store := newMemCategoryStore()
	keys := make(map[domain.CategoryKey]struct{})
	for _, cat := range []string{"Resistors", "Capacitors", "Inductors", "Diodes", "LEDs", "Crystals", "Relays", "Fuses"} {
		keys[domain.CategoryKey{MainCategory: "Components", Category: cat}] = struct{}{}
	}

	ids := newCategoryResolver(store, 3).Resolve(context.Background(), keys)

	assert.Len(t, ids, len(keys))
	assert.Equal(t, len(keys), store.count())
}
