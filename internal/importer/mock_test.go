package importer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/partsbridge/backend-go/internal/domain"
)

// memCategoryStore is an in-memory CategoryStore safe for concurrent use.
type memCategoryStore struct {
	mu      sync.Mutex
	nextID  int64
	byKey   map[domain.CategoryKey]*domain.Category
	creates int

	findErr   func(key domain.CategoryKey) error
	createErr func(key domain.CategoryKey) error
}

func newMemCategoryStore() *memCategoryStore {
	return &memCategoryStore{byKey: make(map[domain.CategoryKey]*domain.Category)}
}

func (s *memCategoryStore) FindByKey(ctx context.Context, key domain.CategoryKey) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		if err := s.findErr(key); err != nil {
			return nil, err
		}
	}
	if cat, ok := s.byKey[key]; ok {
		copied := *cat
		return &copied, nil
	}
	return nil, nil
}

func (s *memCategoryStore) Create(ctx context.Context, key domain.CategoryKey) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		if err := s.createErr(key); err != nil {
			return nil, err
		}
	}
	s.creates++
	if cat, ok := s.byKey[key]; ok {
		copied := *cat
		return &copied, nil
	}
	s.nextID++
	var sub *string
	if key.SubCategory != "" {
		v := key.SubCategory
		sub = &v
	}
	cat := &domain.Category{
		ID:           s.nextID,
		MainCategory: key.MainCategory,
		Category:     key.Category,
		SubCategory:  sub,
	}
	s.byKey[key] = cat
	copied := *cat
	return &copied, nil
}

func (s *memCategoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byKey)
}

// memProductStore is an in-memory ProductStore safe for concurrent use.
type memProductStore struct {
	mu       sync.Mutex
	products map[string]domain.Product
	pages    [][]string

	fetchErr  error
	insertErr func(batch []domain.Product) error
	updateErr func(batch []domain.Product) error
}

func newMemProductStore() *memProductStore {
	return &memProductStore{products: make(map[string]domain.Product)}
}

func (s *memProductStore) FindByNames(ctx context.Context, names []string) ([]domain.ExistingProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, append([]string(nil), names...))
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	var out []domain.ExistingProduct
	for _, p := range s.products {
		if _, ok := wanted[p.Name]; ok {
			out = append(out, domain.ExistingProduct{ID: p.ID, Name: p.Name, Specifications: p.Specifications})
		}
	}
	return out, nil
}

func (s *memProductStore) BulkInsert(ctx context.Context, batch []domain.Product) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		if err := s.insertErr(batch); err != nil {
			return 0, err
		}
	}
	var inserted int64
	for _, p := range batch {
		if _, exists := s.products[p.ID]; exists {
			continue
		}
		s.products[p.ID] = p
		inserted++
	}
	return inserted, nil
}

func (s *memProductStore) UpdateBatch(ctx context.Context, batch []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		if err := s.updateErr(batch); err != nil {
			return err
		}
	}
	for _, p := range batch {
		if _, exists := s.products[p.ID]; !exists {
			return fmt.Errorf("product %s does not exist", p.ID)
		}
	}
	for _, p := range batch {
		s.products[p.ID] = p
	}
	return nil
}

func (s *memProductStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

func (s *memProductStore) byName(name string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, p := range s.products {
		if p.Name == name {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memProductStore) seed(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}
