package importer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/partsbridge/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// batchWriter flushes the create and update lists in fixed-size batches with
// a bounded number in flight. A failed batch is logged with its range and
// recorded, and never stops the remaining batches.
type batchWriter struct {
	store       ProductStore
	batchSize   int
	maxInFlight int64
}

func newBatchWriter(store ProductStore, cfg Config) *batchWriter {
	return &batchWriter{
		store:       store,
		batchSize:   cfg.WriteBatchSize,
		maxInFlight: int64(cfg.MaxInFlightBatches),
	}
}

func (w *batchWriter) Write(ctx context.Context, creates, updates []domain.Product) (int64, int64, []domain.BatchError) {
	var (
		sem     = semaphore.NewWeighted(w.maxInFlight)
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    []domain.BatchError
		created atomic.Int64
		updated atomic.Int64
	)

	fail := func(op string, start, end int, err error) {
		mu.Lock()
		errs = append(errs, domain.BatchError{Op: op, Start: start, End: end, Err: err.Error()})
		mu.Unlock()
	}

	run := func(op string, records []domain.Product, submit func([]domain.Product) (int64, error), count *atomic.Int64) {
		for start := 0; start < len(records); start += w.batchSize {
			end := start + w.batchSize
			if end > len(records) {
				end = len(records)
			}

			// cancellation is honored between batches only; a batch already
			// in flight runs to completion
			if err := sem.Acquire(ctx, 1); err != nil {
				fail(op, start, len(records), err)
				return
			}

			batch := records[start:end]
			wg.Add(1)
			go func(start, end int, batch []domain.Product) {
				defer wg.Done()
				defer sem.Release(1)

				n, err := submit(batch)
				if err != nil {
					log.Error().Err(err).
						Str("op", op).
						Int("start", start).
						Int("end", end).
						Msg("import write batch failed")
					fail(op, start, end, err)
					return
				}
				count.Add(n)
			}(start, end, batch)
		}
	}

	run("create", creates, func(batch []domain.Product) (int64, error) {
		return w.store.BulkInsert(ctx, batch)
	}, &created)

	run("update", updates, func(batch []domain.Product) (int64, error) {
		if err := w.store.UpdateBatch(ctx, batch); err != nil {
			return 0, err
		}
		return int64(len(batch)), nil
	}, &updated)

	wg.Wait()
	return created.Load(), updated.Load(), errs
}
