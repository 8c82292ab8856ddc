// backend-go/internal/service/product_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/partsbridge/backend-go/internal/cache"
	"github.com/partsbridge/backend-go/internal/domain"
	"github.com/partsbridge/backend-go/internal/idgen"
	"github.com/partsbridge/backend-go/internal/repository"
)

// NewProductInput carries the fields accepted when creating a single product.
type NewProductInput struct {
	Name           string            `json:"name" binding:"required"`
	CPN            string            `json:"cpn"`
	Source         string            `json:"source"`
	Manufacturer   string            `json:"manufacturer"`
	MfrPartNumber  string            `json:"mfrPartNumber"`
	StockQty       string            `json:"stockQty"`
	SPQ            string            `json:"spq"`
	MOQ            string            `json:"moq"`
	LTWks          string            `json:"ltwks"`
	Remarks        string            `json:"remarks"`
	DatasheetLink  string            `json:"datasheetLink"`
	Description    string            `json:"description"`
	Specifications map[string]string `json:"specifications"`
	MainCategory   string            `json:"mainCategory" binding:"required"`
	Category       string            `json:"category" binding:"required"`
	SubCategory    string            `json:"subCategory"`
}

type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      cache.CatalogCache
}

func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, catalogCache cache.CatalogCache) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		cache:      catalogCache,
	}
}

// ListProducts returns one catalog page, served from the cache when a fresh
// copy exists.
func (s *ProductService) ListProducts(ctx context.Context, page, limit int) (*domain.ProductPage, error) {
	if cached, ok, err := s.cache.GetProductPage(ctx, page, limit); err != nil {
		log.Warn().Err(err).Msg("Catalog cache read failed")
	} else if ok {
		return cached, nil
	}

	result, err := s.products.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProductPage(ctx, result); err != nil {
		log.Warn().Err(err).Msg("Catalog cache write failed")
	}

	return result, nil
}

// AddProduct normalizes and persists a single product, resolving its
// category triple the same way the bulk import does.
func (s *ProductService) AddProduct(ctx context.Context, in NewProductInput) (*domain.Product, error) {
	key := domain.CategoryKey{
		MainCategory: domain.TrimOrPlaceholder(in.MainCategory),
		Category:     domain.TrimOrPlaceholder(in.Category),
		SubCategory:  strings.TrimSpace(in.SubCategory),
	}
	if key.MainCategory == domain.Placeholder || key.Category == domain.Placeholder {
		return nil, fmt.Errorf("mainCategory and category are required")
	}

	category, err := s.categories.FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}
	if category == nil {
		category, err = s.categories.Create(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create category: %w", err)
		}
	}

	var specs domain.SpecMap
	if len(in.Specifications) > 0 {
		specs = domain.SpecMap(in.Specifications)
	}

	product := &domain.Product{
		ID:             idgen.New(),
		CPN:            domain.TrimOrPlaceholder(in.CPN),
		Source:         domain.TrimOrNil(in.Source),
		Name:           domain.TrimOrPlaceholder(in.Name),
		DatasheetLink:  domain.TrimOrNil(in.DatasheetLink),
		Description:    domain.TrimOrNil(in.Description),
		Manufacturer:   domain.TrimOrPlaceholder(in.Manufacturer),
		MfrPartNumber:  domain.TrimOrPlaceholder(in.MfrPartNumber),
		StockQty:       domain.ParseIntOrNil(in.StockQty),
		SPQ:            domain.ParseIntOrNil(in.SPQ),
		MOQ:            domain.ParseIntOrNil(in.MOQ),
		LTWks:          domain.TrimOrPlaceholder(in.LTWks),
		Remarks:        domain.TrimOrPlaceholder(in.Remarks),
		Specifications: specs,
		CategoryID:     category.ID,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate catalog cache after create")
	}

	return product, nil
}

// ListCategories returns every known category triple.
func (s *ProductService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}
