package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/repository"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// StationService manages service points, their staffing and the
// categories they serve.
type StationService struct {
	base
	// mu serializes station creation and employee binding so that an
	// employee is bound to at most one station.
	mu sync.Mutex
}

// NewStationService constructs the service.
func NewStationService(deps Dependencies) *StationService {
	return &StationService{base: newBase(deps)}
}

// CreateStation adds a closed, unstaffed station with a unique number.
func (s *StationService) CreateStation(ctx context.Context, number int) (*domain.Station, error) {
	if number <= 0 {
		return nil, apperrors.NewValidationError("station number must be positive", map[string]any{"number": number})
	}
	s.mu.Lock()
	station := domain.NewStation(s.registry.Stations.NextID(), number)
	err := s.registry.Stations.Add(station)
	s.mu.Unlock()
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("station created", zap.Int("station_id", station.ID), zap.Int("number", number))
	return station, s.commit(ctx, repository.NewBatch().Station(station))
}

// OpenStation opens a staffed station.
func (s *StationService) OpenStation(ctx context.Context, id int) (*domain.Station, error) {
	station, err := s.GetStation(id)
	if err != nil {
		return nil, err
	}
	if !station.Open() {
		return nil, apperrors.NewPreconditionFailed("station has no employee", map[string]any{"station_id": id})
	}
	return station, s.commit(ctx, repository.NewBatch().Station(station))
}

// CloseStation closes a station. Closing a closed station is a no-op.
func (s *StationService) CloseStation(ctx context.Context, id int) (*domain.Station, error) {
	station, err := s.GetStation(id)
	if err != nil {
		return nil, err
	}
	station.Close()
	return station, s.commit(ctx, repository.NewBatch().Station(station))
}

// AssignEmployee binds an employee to a station. The employee's previous
// station, if any, is released first; a different employee already at the
// target station loses it.
func (s *StationService) AssignEmployee(ctx context.Context, stationID int, employeeID string) (*domain.Station, error) {
	station, err := s.GetStation(stationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.registry.Users.Employee(employeeID); err != nil {
		return nil, lookupError(err, "employee", map[string]any{"employee_id": employeeID})
	}

	batch := repository.NewBatch()
	s.mu.Lock()
	if previous, err := s.registry.Stations.FindByEmployee(employeeID); err == nil && previous.ID != station.ID {
		previous.SetEmployee("")
		batch.Station(previous)
	}
	station.SetEmployee(employeeID)
	s.mu.Unlock()

	s.logger.Info("employee assigned to station", zap.String("employee_id", employeeID), zap.Int("station", station.Number))
	return station, s.commit(ctx, batch.Station(station))
}

// UnassignEmployee clears the station's employee and closes it.
func (s *StationService) UnassignEmployee(ctx context.Context, stationID int) (*domain.Station, error) {
	station, err := s.GetStation(stationID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	station.SetEmployee("")
	s.mu.Unlock()
	return station, s.commit(ctx, repository.NewBatch().Station(station))
}

// AddCategory appends a category to the station's priority list.
func (s *StationService) AddCategory(ctx context.Context, stationID, categoryID int) (*domain.Station, error) {
	station, err := s.GetStation(stationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.registry.Categories.Get(categoryID); err != nil {
		return nil, lookupError(err, "category", map[string]any{"category_id": categoryID})
	}
	if !station.AddCategory(categoryID) {
		return station, nil
	}
	return station, s.commit(ctx, repository.NewBatch().Station(station))
}

// RemoveCategory drops a category from the station.
func (s *StationService) RemoveCategory(ctx context.Context, stationID, categoryID int) (*domain.Station, error) {
	station, err := s.GetStation(stationID)
	if err != nil {
		return nil, err
	}
	if !station.RemoveCategory(categoryID) {
		return nil, apperrors.NewNotFound("station category", map[string]any{
			"station_id": stationID, "category_id": categoryID,
		})
	}
	return station, s.commit(ctx, repository.NewBatch().Station(station))
}

// GetStation returns a station by id.
func (s *StationService) GetStation(id int) (*domain.Station, error) {
	station, err := s.registry.Stations.Get(id)
	if err != nil {
		return nil, lookupError(err, "station", map[string]any{"station_id": id})
	}
	return station, nil
}

// StationForEmployee returns the station an employee staffs.
func (s *StationService) StationForEmployee(employeeID string) (*domain.Station, error) {
	station, err := s.registry.Stations.FindByEmployee(employeeID)
	if err != nil {
		return nil, lookupError(err, "station", map[string]any{"employee_id": employeeID})
	}
	return station, nil
}

// ListStations returns all stations ordered by id.
func (s *StationService) ListStations() []*domain.Station {
	return s.registry.Stations.List()
}

// ListOpen returns stations currently open.
func (s *StationService) ListOpen() []*domain.Station {
	var out []*domain.Station
	for _, station := range s.registry.Stations.List() {
		if station.Status() == domain.StationStatusOpen {
			out = append(out, station)
		}
	}
	return out
}

// StationsSupporting returns stations that serve a category.
func (s *StationService) StationsSupporting(categoryID int) []*domain.Station {
	var out []*domain.Station
	for _, station := range s.registry.Stations.List() {
		if station.Supports(categoryID) {
			out = append(out, station)
		}
	}
	return out
}
