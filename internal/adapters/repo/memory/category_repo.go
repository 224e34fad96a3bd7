package memory

import (
	"context"
	"sync"

	"github.com/phenrril/backoffice/internal/domain"
)

type CategoryRepo struct {
	mu   sync.RWMutex
	list []domain.Category
}

func NewCategoryRepo(seed []domain.Category) *CategoryRepo {
	return &CategoryRepo{list: append([]domain.Category(nil), seed...)}
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Category{}, r.list...), nil
}

func (r *CategoryRepo) Add(ctx context.Context, c domain.Category) (domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.list {
		if existing.Value == c.Value {
			return existing, nil
		}
	}
	r.list = append(r.list, c)
	return c, nil
}
