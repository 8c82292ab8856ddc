package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsbridge/backend-go/internal/domain"
)

func makeProducts(prefix string, n int) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		out[i] = domain.Product{ID: fmt.Sprintf("%s%05d", prefix, i), Name: "P"}
	}
	return out
}

func writerConfig(batchSize, inFlight int) Config {
	return Config{WriteBatchSize: batchSize, MaxInFlightBatches: inFlight}.withDefaults()
}

func TestWriterSplitsIntoBatches(t *testing.T) {
	store := newMemProductStore()
	w := newBatchWriter(store, writerConfig(10, 2))

	created, updated, errs := w.Write(context.Background(), makeProducts("AB", 25), nil)

	assert.Equal(t, int64(25), created)
	assert.Equal(t, int64(0), updated)
	assert.Empty(t, errs)
	assert.Equal(t, 25, store.count())
}

func TestWriterCountsOnlyRowsActuallyInserted(t *testing.T) {
	store := newMemProductStore()
	store.seed(domain.Product{ID: "AB00003", Name: "old"})
	w := newBatchWriter(store, writerConfig(10, 2))

	created, _, errs := w.Write(context.Background(), makeProducts("AB", 5), nil)

	assert.Empty(t, errs)
	// one id collided and was skipped by the insert
	assert.Equal(t, int64(4), created)
}

func TestWriterIsolatesFailedBatches(t *testing.T) {
	store := newMemProductStore()
	calls := 0
	store.insertErr = func(batch []domain.Product) error {
		calls++
		if calls == 2 {
			return errors.New("deadlock detected")
		}
		return nil
	}
	w := newBatchWriter(store, writerConfig(10, 1))

	created, _, errs := w.Write(context.Background(), makeProducts("AB", 30), nil)

	assert.Equal(t, int64(20), created)
	require.Len(t, errs, 1)
	assert.Equal(t, "create", errs[0].Op)
	assert.Equal(t, 10, errs[0].End-errs[0].Start)
	assert.Contains(t, errs[0].Err, "deadlock")
}

func TestWriterUpdateBatchFailureRecorded(t *testing.T) {
	store := newMemProductStore()
	updates := makeProducts("CD", 8)
	for _, p := range updates {
		store.seed(p)
	}
	store.updateErr = func(batch []domain.Product) error {
		return errors.New("serialization failure")
	}
	w := newBatchWriter(store, writerConfig(4, 2))

	_, updated, errs := w.Write(context.Background(), nil, updates)

	assert.Equal(t, int64(0), updated)
	require.Len(t, errs, 2)
	for _, be := range errs {
		assert.Equal(t, "update", be.Op)
	}
}

func TestWriterHonorsCancellationBetweenBatches(t *testing.T) {
	store := newMemProductStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := newBatchWriter(store, writerConfig(10, 1))
	created, _, errs := w.Write(ctx, makeProducts("AB", 30), nil)

	assert.Equal(t, int64(0), created)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Err, "context canceled")
}
