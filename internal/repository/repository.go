// backend-go/internal/repository/repository.go
package repository

import (
	"context"

	"github.com/partsbridge/backend-go/internal/domain"
)

type CategoryRepository interface {
	FindByKey(ctx context.Context, key domain.CategoryKey) (*domain.Category, error)
	Create(ctx context.Context, key domain.CategoryKey) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type ProductRepository interface {
	FindByNames(ctx context.Context, names []string) ([]domain.ExistingProduct, error)
	BulkInsert(ctx context.Context, products []domain.Product) (int64, error)
	UpdateBatch(ctx context.Context, products []domain.Product) error
	Create(ctx context.Context, product *domain.Product) error
	List(ctx context.Context, page, limit int) (*domain.ProductPage, error)
}
