package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/events"
	"github.com/spec-kit/service-center/internal/observability"
	"github.com/spec-kit/service-center/internal/repository"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// AssignNextTicket hands the employee the head of the first non-empty
// queue among their station's categories, in the station's order. It
// returns (nil, nil) when every queue is empty.
func (s *DispatchService) AssignNextTicket(ctx context.Context, employeeID string) (*domain.Ticket, error) {
	employee, err := s.registry.Users.Employee(employeeID)
	if err != nil {
		return nil, lookupError(err, "employee", map[string]any{"employee_id": employeeID})
	}
	if employee.Availability() != domain.AvailabilityAvailable {
		return nil, apperrors.NewPreconditionFailed("employee not available", map[string]any{
			"employee_id": employeeID, "availability": employee.Availability(),
		})
	}
	station, err := s.registry.Stations.FindByEmployee(employeeID)
	if err != nil {
		return nil, apperrors.NewPreconditionFailed("employee has no station", map[string]any{"employee_id": employeeID})
	}
	if s.requireOpenStation && station.Status() != domain.StationStatusOpen {
		return nil, apperrors.NewPreconditionFailed("station closed", map[string]any{"station": station.Number})
	}

	categories := s.stationCategories(station)
	var (
		source *domain.Category
		pulled bool
	)
	ticket := employee.Accept(s.now(), func() *domain.Ticket {
		pulled = true
		for _, category := range categories {
			if t, ok := category.Dequeue(); ok {
				source = category
				return t
			}
		}
		return nil
	})
	if ticket == nil {
		if !pulled {
			// Availability changed between the check above and Accept.
			return nil, apperrors.NewPreconditionFailed("employee not available", map[string]any{"employee_id": employeeID})
		}
		s.logger.Debug("no waiting tickets", zap.String("employee_id", employeeID), zap.Int("station", station.Number))
		return nil, nil
	}

	s.metrics.Inc(observability.CounterTicketsAssigned)
	s.logger.Info("ticket assigned",
		zap.String("code", ticket.Code),
		zap.String("employee_id", employeeID),
		zap.Int("station", station.Number))

	s.publish(ctx, events.NewEvent(events.EventTicketInProgress, ticket.Code,
		events.Actor{Kind: domain.UserKindEmployee, UserID: employeeID}, s.now(),
		events.TicketInProgressPayload{
			Code:          ticket.Code,
			StationNumber: station.Number,
			EmployeeID:    employeeID,
		}))

	batch := repository.NewBatch().Ticket(ticket).Employee(employee)
	if source != nil {
		batch.Category(source)
	}
	return ticket, s.commit(ctx, batch)
}

// stationCategories resolves the station's category ids in order, skipping
// ids that no longer exist.
func (s *DispatchService) stationCategories(station *domain.Station) []*domain.Category {
	ids := station.CategoryIDs()
	out := make([]*domain.Category, 0, len(ids))
	for _, id := range ids {
		category, err := s.registry.Categories.Get(id)
		if err != nil {
			continue
		}
		out = append(out, category)
	}
	return out
}
