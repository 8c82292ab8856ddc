package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsbridge/backend-go/internal/domain"
)

func TestBuildExistingIndexGroupsByName(t *testing.T) {
	store := newMemProductStore()
	store.seed(domain.Product{ID: "AB00001", Name: "R1", Specifications: domain.SpecMap{"Voltage": "5V"}})
	store.seed(domain.Product{ID: "AB00002", Name: "R1", Specifications: nil})
	store.seed(domain.Product{ID: "AB00003", Name: "C1", Specifications: domain.SpecMap{}})

	idx, err := buildExistingIndex(context.Background(), store, map[string]struct{}{"R1": {}, "C1": {}}, 100)
	require.NoError(t, err)

	assert.Len(t, idx.lookup("R1"), 2)
	require.Len(t, idx.lookup("C1"), 1)
	assert.Equal(t, "{}", idx.lookup("C1")[0].specKey)
	assert.Empty(t, idx.lookup("R9"))
}

func TestBuildExistingIndexPagesNames(t *testing.T) {
	store := newMemProductStore()
	names := map[string]struct{}{"A": {}, "B": {}, "C": {}, "D": {}, "E": {}}

	_, err := buildExistingIndex(context.Background(), store, names, 2)
	require.NoError(t, err)

	// 5 names at page size 2 means 3 fetches
	require.Len(t, store.pages, 3)
	total := 0
	for _, page := range store.pages {
		assert.LessOrEqual(t, len(page), 2)
		total += len(page)
	}
	assert.Equal(t, 5, total)
}

func TestBuildExistingIndexFetchFailureIsFatal(t *testing.T) {
	store := newMemProductStore()
	store.fetchErr = errors.New("connection reset")

	_, err := buildExistingIndex(context.Background(), store, map[string]struct{}{"R1": {}}, 100)
	require.Error(t, err)
	assert.ErrorContains(t, err, "fetch existing products")
}

func TestBuildExistingIndexEmptyNames(t *testing.T) {
	store := newMemProductStore()

	idx, err := buildExistingIndex(context.Background(), store, nil, 100)
	require.NoError(t, err)
	assert.Empty(t, store.pages)
	assert.Empty(t, idx.lookup("R1"))
}
