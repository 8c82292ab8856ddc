package importer

import (
	"context"

	"github.com/partsbridge/backend-go/internal/domain"
)

// CategoryStore is the storage contract the category resolver depends on.
type CategoryStore interface {
	// FindByKey returns the category matching the triple exactly (null
	// sub-category matches null, not empty string), or nil when absent.
	FindByKey(ctx context.Context, key domain.CategoryKey) (*domain.Category, error)
	Create(ctx context.Context, key domain.CategoryKey) (*domain.Category, error)
}

// ProductStore is the storage contract the index and batch writer depend on.
type ProductStore interface {
	// FindByNames fetches the reconciliation projection of every product
	// whose name is in the given list.
	FindByNames(ctx context.Context, names []string) ([]domain.ExistingProduct, error)
	// BulkInsert inserts a batch, silently skipping duplicate ids, and
	// returns the number of rows actually inserted.
	BulkInsert(ctx context.Context, products []domain.Product) (int64, error)
	// UpdateBatch applies every update in the batch inside a single
	// transaction; either all apply or none do.
	UpdateBatch(ctx context.Context, products []domain.Product) error
}
