package repository

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/service-center/internal/domain"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// CategoryRepository holds the loaded categories.
type CategoryRepository interface {
	Add(category *domain.Category) error
	Get(id int) (*domain.Category, error)
	GetByPrefix(prefix string) (*domain.Category, error)
	List() []*domain.Category
	NextID() int
}

type categoryRepository struct {
	mu       sync.RWMutex
	byID     map[int]*domain.Category
	byPrefix map[string]*domain.Category
}

// NewCategoryRepository instantiates repository.
func NewCategoryRepository() CategoryRepository {
	return &categoryRepository{
		byID:     make(map[int]*domain.Category),
		byPrefix: make(map[string]*domain.Category),
	}
}

func (r *categoryRepository) Add(category *domain.Category) error {
	prefix := strings.ToUpper(category.Prefix)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[category.ID]; ok {
		return apperrors.NewConflict("category already exists", map[string]any{"id": category.ID})
	}
	if _, ok := r.byPrefix[prefix]; ok {
		return apperrors.NewConflict("category prefix already in use", map[string]any{"prefix": prefix})
	}
	r.byID[category.ID] = category
	r.byPrefix[prefix] = category
	return nil
}

func (r *categoryRepository) Get(id int) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, apperrors.ErrNotFound)
	}
	return c, nil
}

func (r *categoryRepository) GetByPrefix(prefix string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byPrefix[strings.ToUpper(prefix)]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", prefix, apperrors.ErrNotFound)
	}
	return c, nil
}

// List returns categories ordered by id.
func (r *categoryRepository) List() []*domain.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *categoryRepository) NextID() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	next := 1
	for id := range r.byID {
		if id >= next {
			next = id + 1
		}
	}
	return next
}
