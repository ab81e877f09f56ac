package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spec-kit/service-center/internal/domain"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// ClientRepository holds registered clients.
type ClientRepository interface {
	Add(client domain.Client) error
	Save(client domain.Client) error
	Get(id string) (domain.Client, error)
	List() []domain.Client
}

type clientRepository struct {
	mu   sync.RWMutex
	byID map[string]domain.Client
}

// NewClientRepository instantiates repository.
func NewClientRepository() ClientRepository {
	return &clientRepository{byID: make(map[string]domain.Client)}
}

func (r *clientRepository) Add(client domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[client.ID]; ok {
		return apperrors.NewConflict("client already registered", map[string]any{"id": client.ID})
	}
	r.byID[client.ID] = client
	return nil
}

// Save replaces an existing client.
func (r *clientRepository) Save(client domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[client.ID]; !ok {
		return fmt.Errorf("client %s: %w", client.ID, apperrors.ErrNotFound)
	}
	r.byID[client.ID] = client
	return nil
}

func (r *clientRepository) Get(id string) (domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return domain.Client{}, fmt.Errorf("client %s: %w", id, apperrors.ErrNotFound)
	}
	return c, nil
}

// List returns clients ordered by id.
func (r *clientRepository) List() []domain.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Client, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
