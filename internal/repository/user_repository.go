package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spec-kit/service-center/internal/domain"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// UserRepository holds administrators and employees under one id space.
type UserRepository interface {
	Add(user domain.User) error
	Get(id string) (domain.User, error)
	Employee(id string) (*domain.Employee, error)
	Employees() []*domain.Employee
	List() []domain.User
}

type userRepository struct {
	mu   sync.RWMutex
	byID map[string]domain.User
}

// NewUserRepository instantiates repository.
func NewUserRepository() UserRepository {
	return &userRepository{byID: make(map[string]domain.User)}
}

func (r *userRepository) Add(user domain.User) error {
	if !user.Valid() {
		return apperrors.NewValidationError("invalid user", map[string]any{"kind": user.Kind})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID()]; ok {
		return apperrors.NewConflict("user id already in use", map[string]any{"id": user.ID()})
	}
	r.byID[user.ID()] = user
	return nil
}

func (r *userRepository) Get(id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	return u, nil
}

func (r *userRepository) Employee(id string) (*domain.Employee, error) {
	u, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if u.Kind != domain.UserKindEmployee {
		return nil, fmt.Errorf("employee %s: %w", id, apperrors.ErrNotFound)
	}
	return u.Employee, nil
}

// Employees returns employees ordered by id.
func (r *userRepository) Employees() []*domain.Employee {
	var out []*domain.Employee
	for _, u := range r.List() {
		if u.Kind == domain.UserKindEmployee {
			out = append(out, u.Employee)
		}
	}
	return out
}

// List returns all users ordered by id.
func (r *userRepository) List() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
