package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/example/salesmate/pkg/models"
)

// MemoryStore keeps products in insertion order. It backs local development
// and tests with the same Find semantics as the Mongo store.
type MemoryStore struct {
	mu       sync.RWMutex
	products []models.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(products ...models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, products...)
}

func (s *MemoryStore) Find(ctx context.Context, f Filter, limit int64) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]models.Product, 0)
	for _, p := range s.products {
		if int64(len(matches)) >= limit {
			break
		}
		if matchesFilter(p, f) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func matchesFilter(p models.Product, f Filter) bool {
	if f.Query != "" {
		if !containsFold(p.Name, f.Query) &&
			!containsFold(p.Description, f.Query) &&
			!containsFold(p.Subcategory, f.Query) {
			return false
		}
	}
	if f.Category != "" && !containsFold(p.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
