package importer

import (
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsbridge/backend-go/internal/domain"
)

func indexOf(existing ...domain.ExistingProduct) *existingIndex {
	idx := &existingIndex{byName: make(map[string][]indexedProduct)}
	for _, rec := range existing {
		idx.byName[rec.Name] = append(idx.byName[rec.Name], indexedProduct{
			id:      rec.ID,
			specKey: rec.Specifications.Canonical(),
		})
	}
	return idx
}

func TestReconcileCreatesUnmatchedDrafts(t *testing.T) {
	drafts := []domain.ProductDraft{
		{Name: "R1", Specifications: domain.SpecMap{"Voltage": "5V"}, CategoryID: 7},
	}

	res, degraded, err := reconcile(drafts, indexOf(), ModeSkip, 1)
	require.NoError(t, err)

	assert.False(t, degraded)
	require.Len(t, res.creates, 1)
	assert.Empty(t, res.updates)

	p := res.creates[0]
	assert.Regexp(t, regexp.MustCompile(`^[A-Z]{2}[0-9]{5}$`), p.ID)
	assert.Equal(t, int64(7), p.CategoryID)
}

func TestReconcileSkipModeDropsStructuralMatches(t *testing.T) {
	specs := domain.SpecMap{"Voltage": "5V"}
	drafts := []domain.ProductDraft{{Name: "R1", Specifications: specs}}
	idx := indexOf(domain.ExistingProduct{ID: "AB00001", Name: "R1", Specifications: specs})

	res, degraded, err := reconcile(drafts, idx, ModeSkip, 1)
	require.NoError(t, err)

	assert.False(t, degraded)
	assert.Empty(t, res.creates)
	assert.Empty(t, res.updates)
}

func TestReconcileOverwriteModeUpdatesWithExistingID(t *testing.T) {
	specs := domain.SpecMap{"Voltage": "5V"}
	drafts := []domain.ProductDraft{{Name: "R1", Specifications: specs, Remarks: "new remarks"}}
	idx := indexOf(domain.ExistingProduct{ID: "AB00001", Name: "R1", Specifications: specs})

	res, degraded, err := reconcile(drafts, idx, ModeOverwrite, 1)
	require.NoError(t, err)

	assert.False(t, degraded)
	assert.Empty(t, res.creates)
	require.Len(t, res.updates, 1)
	assert.Equal(t, "AB00001", res.updates[0].ID)
	assert.Equal(t, "new remarks", res.updates[0].Remarks)
}

func TestReconcileSameNameDifferentSpecsIsDistinct(t *testing.T) {
	drafts := []domain.ProductDraft{
		{Name: "R1", Specifications: domain.SpecMap{"Voltage": "3V3"}},
	}
	idx := indexOf(domain.ExistingProduct{ID: "AB00001", Name: "R1", Specifications: domain.SpecMap{"Voltage": "5V"}})

	res, _, err := reconcile(drafts, idx, ModeOverwrite, 1)
	require.NoError(t, err)

	require.Len(t, res.creates, 1)
	assert.Empty(t, res.updates)
	assert.NotEqual(t, "AB00001", res.creates[0].ID)
}

func TestReconcileNilSpecsDoNotMatchEmptySpecs(t *testing.T) {
	drafts := []domain.ProductDraft{{Name: "R1", Specifications: nil}}
	idx := indexOf(domain.ExistingProduct{ID: "AB00001", Name: "R1", Specifications: domain.SpecMap{}})

	res, _, err := reconcile(drafts, idx, ModeOverwrite, 1)
	require.NoError(t, err)

	require.Len(t, res.creates, 1)
	assert.Empty(t, res.updates)
}

func TestReconcileKeyOrderInsensitiveMatch(t *testing.T) {
	drafts := []domain.ProductDraft{
		{Name: "R1", Specifications: domain.SpecMap{"b": "2", "a": "1"}},
	}
	idx := indexOf(domain.ExistingProduct{ID: "AB00001", Name: "R1", Specifications: domain.SpecMap{"a": "1", "b": "2"}})

	res, _, err := reconcile(drafts, idx, ModeOverwrite, 1)
	require.NoError(t, err)

	require.Len(t, res.updates, 1)
	assert.Equal(t, "AB00001", res.updates[0].ID)
}

func reconcileFixture(n int) ([]domain.ProductDraft, *existingIndex) {
	var drafts []domain.ProductDraft
	var existing []domain.ExistingProduct
	for i := 0; i < n; i++ {
		name := "P" + string(rune('A'+i%26)) + string(rune('A'+i/26))
		specs := domain.SpecMap{"n": name}
		drafts = append(drafts, domain.ProductDraft{Name: name, Specifications: specs})
		if i%2 == 0 {
			existing = append(existing, domain.ExistingProduct{ID: "AB" + name, Name: name, Specifications: specs})
		}
	}
	return drafts, indexOf(existing...)
}

func updateIDs(ps []domain.Product) map[string]struct{} {
	out := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		out[p.ID] = struct{}{}
	}
	return out
}

func TestReconcileShardedMatchesSingleThreaded(t *testing.T) {
	drafts, idx := reconcileFixture(100)

	single, degraded, err := reconcile(append([]domain.ProductDraft(nil), drafts...), idx, ModeOverwrite, 1)
	require.NoError(t, err)
	require.False(t, degraded)
	sharded, degraded, err := reconcile(append([]domain.ProductDraft(nil), drafts...), idx, ModeOverwrite, 8)
	require.NoError(t, err)
	require.False(t, degraded)

	assert.Len(t, sharded.creates, len(single.creates))
	require.Len(t, sharded.updates, len(single.updates))
	assert.Equal(t, updateIDs(single.updates), updateIDs(sharded.updates))
}

func TestReconcileShardPanicFallsBackSingleThreaded(t *testing.T) {
	orig := reconcileChunkFn
	defer func() { reconcileChunkFn = orig }()

	var calls atomic.Int32
	reconcileChunkFn = func(drafts []domain.ProductDraft, idx *existingIndex, mode Mode) reconcileResult {
		if calls.Add(1) == 1 {
			panic("transient shard failure")
		}
		return reconcileChunk(drafts, idx, mode)
	}

	drafts, idx := reconcileFixture(40)
	res, degraded, err := reconcile(drafts, idx, ModeOverwrite, 4)
	require.NoError(t, err)
	assert.True(t, degraded)

	want := reconcileChunk(drafts, idx, ModeOverwrite)
	assert.Len(t, res.creates, len(want.creates))
	require.Len(t, res.updates, len(want.updates))
	assert.Equal(t, updateIDs(want.updates), updateIDs(res.updates))
}

func TestReconcileDeterministicPanicReturnsError(t *testing.T) {
	drafts, _ := reconcileFixture(8)

	// nil index panics in every pass, sharded and fallback alike
	_, degraded, err := reconcile(drafts, nil, ModeSkip, 4)
	require.Error(t, err)
	assert.ErrorContains(t, err, "reconcile drafts")
	assert.False(t, degraded)

	_, _, err = reconcile(drafts[:1], nil, ModeSkip, 1)
	require.Error(t, err)
}

func TestReconcileEmptyDrafts(t *testing.T) {
	res, degraded, err := reconcile(nil, indexOf(), ModeSkip, 8)
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Empty(t, res.creates)
	assert.Empty(t, res.updates)
}
