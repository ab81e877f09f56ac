package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spec-kit/service-center/internal/domain"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// StationRepository holds the loaded stations. Stations own the
// station -> employee link; FindByEmployee resolves the reverse direction.
type StationRepository interface {
	Add(station *domain.Station) error
	Get(id int) (*domain.Station, error)
	GetByNumber(number int) (*domain.Station, error)
	FindByEmployee(employeeID string) (*domain.Station, error)
	List() []*domain.Station
	NextID() int
}

type stationRepository struct {
	mu   sync.RWMutex
	byID map[int]*domain.Station
}

// NewStationRepository instantiates repository.
func NewStationRepository() StationRepository {
	return &stationRepository{byID: make(map[int]*domain.Station)}
}

func (r *stationRepository) Add(station *domain.Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[station.ID]; ok {
		return apperrors.NewConflict("station already exists", map[string]any{"id": station.ID})
	}
	for _, s := range r.byID {
		if s.Number == station.Number {
			return apperrors.NewConflict("station number already in use", map[string]any{"number": station.Number})
		}
	}
	r.byID[station.ID] = station
	return nil
}

func (r *stationRepository) Get(id int) (*domain.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("station %d: %w", id, apperrors.ErrNotFound)
	}
	return s, nil
}

func (r *stationRepository) GetByNumber(number int) (*domain.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.byID {
		if s.Number == number {
			return s, nil
		}
	}
	return nil, fmt.Errorf("station number %d: %w", number, apperrors.ErrNotFound)
}

func (r *stationRepository) FindByEmployee(employeeID string) (*domain.Station, error) {
	if employeeID != "" {
		for _, s := range r.List() {
			if s.EmployeeID() == employeeID {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("station for employee %s: %w", employeeID, apperrors.ErrNotFound)
}

// List returns stations ordered by id.
func (r *stationRepository) List() []*domain.Station {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Station, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stationRepository) NextID() int {
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
