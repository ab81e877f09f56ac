package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/config"
	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/events"
	"github.com/spec-kit/service-center/internal/observability"
	"github.com/spec-kit/service-center/internal/repository"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// DispatchService coordinates the ticket lifecycle: issuing, assigning,
// completing and cancelling.
type DispatchService struct {
	base
	stats              *StatisticsService
	requireOpenStation bool
}

// NewDispatchService constructs the service.
func NewDispatchService(deps Dependencies, stats *StatisticsService, cfg config.DispatchConfig) *DispatchService {
	return &DispatchService{
		base:               newBase(deps),
		stats:              stats,
		requireOpenStation: cfg.RequireOpenStation,
	}
}

// CreateTicket issues a WAITING ticket for a registered client at the tail
// of the category queue.
func (s *DispatchService) CreateTicket(ctx context.Context, clientID string, categoryID int) (*domain.Ticket, error) {
	if _, err := s.registry.Clients.Get(clientID); err != nil {
		return nil, lookupError(err, "client", map[string]any{"client_id": clientID})
	}
	category, err := s.registry.Categories.Get(categoryID)
	if err != nil {
		return nil, lookupError(err, "category", map[string]any{"category_id": categoryID})
	}
	if !category.IsActive() {
		return nil, apperrors.NewPreconditionFailed("category inactive", map[string]any{"category_id": categoryID})
	}

	now := s.now()
	ticket := domain.NewTicket(category.NextCode(), category, clientID, now)
	if !category.Enqueue(ticket) {
		return nil, apperrors.NewPreconditionFailed("category inactive", map[string]any{"category_id": categoryID})
	}
	if err := s.registry.Tickets.Add(ticket); err != nil {
		category.Remove(ticket.Code)
		return nil, apperrors.MapError(err)
	}
	position := category.Position(ticket.Code)

	if s.stats != nil {
		s.stats.OnTicketGenerated(ticket.Snapshot())
	}
	s.metrics.Inc(observability.CounterTicketsCreated)
	s.logger.Info("ticket created",
		zap.String("code", ticket.Code),
		zap.String("client_id", clientID),
		zap.Int("position", position))

	s.publish(ctx, events.NewEvent(events.EventTicketCreated, ticket.Code,
		events.Actor{ClientID: clientID}, now,
		events.TicketCreatedPayload{
			CategoryID:   category.ID,
			CategoryName: category.Name(),
			ClientID:     clientID,
			Position:     position,
		}))

	return ticket, s.commit(ctx, repository.NewBatch().Ticket(ticket).Category(category))
}

// CompleteTicket finishes a ticket held by employeeID.
func (s *DispatchService) CompleteTicket(ctx context.Context, code, employeeID string) (*domain.Ticket, error) {
	employee, err := s.registry.Users.Employee(employeeID)
	if err != nil {
		return nil, lookupError(err, "employee", map[string]any{"employee_id": employeeID})
	}
	ticket, err := s.registry.Tickets.Get(code)
	if err != nil {
		return nil, lookupError(err, "ticket", map[string]any{"code": code})
	}
	if ticket.Status() != domain.TicketStatusInProgress {
		return nil, apperrors.NewPreconditionFailed("ticket not in progress", map[string]any{
			"code": code, "status": ticket.Status(),
		})
	}
	if ticket.EmployeeID() != employeeID {
		return nil, apperrors.NewForbidden("ticket held by another employee")
	}

	now := s.now()
	if !employee.Complete(ticket, now) {
		return nil, apperrors.NewPreconditionFailed("ticket is not the employee's current ticket", map[string]any{"code": code})
	}

	snap := ticket.Snapshot()
	if s.stats != nil {
		s.stats.OnTicketCompleted(snap)
	}
	s.metrics.Inc(observability.CounterTicketsCompleted)
	s.logger.Info("ticket completed", zap.String("code", code), zap.String("employee_id", employeeID))

	s.publish(ctx, events.NewEvent(events.EventTicketCompleted, code,
		events.Actor{Kind: domain.UserKindEmployee, UserID: employeeID}, now,
		events.TicketCompletedPayload{
			EmployeeID:     employeeID,
			WaitingMinutes: snap.WaitingTime(now),
			ServiceMinutes: snap.ServiceTime(now),
		}))

	return ticket, s.commit(ctx, repository.NewBatch().Ticket(ticket).Employee(employee))
}

// CancelTicket withdraws a WAITING ticket from its queue on behalf of the
// client that holds it. Tickets of other clients report NOT_FOUND.
func (s *DispatchService) CancelTicket(ctx context.Context, code, clientID string) (*domain.Ticket, error) {
	if clientID == "" {
		return nil, apperrors.NewValidationError("client_id required", map[string]any{"code": code})
	}
	ticket, err := s.registry.Tickets.Get(code)
	if err != nil {
		return nil, lookupError(err, "ticket", map[string]any{"code": code})
	}
	if ticket.ClientID != clientID {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"code": code})
	}
	if ticket.Status() != domain.TicketStatusWaiting {
		return nil, apperrors.NewPreconditionFailed("only waiting tickets can be cancelled", map[string]any{
			"code": code, "status": ticket.Status(),
		})
	}
	category, err := s.registry.Categories.Get(ticket.CategoryID)
	if err != nil {
		return nil, lookupError(err, "category", map[string]any{"category_id": ticket.CategoryID})
	}
	// Whoever removes the ticket from the queue owns it; a concurrent
	// dequeue wins otherwise.
	if _, ok := category.Remove(code); !ok {
		return nil, apperrors.NewPreconditionFailed("ticket no longer waiting", map[string]any{"code": code})
	}
	now := s.now()
	if !ticket.ChangeStatus(domain.TicketStatusCancelled, now) {
		return nil, apperrors.NewPreconditionFailed("ticket no longer waiting", map[string]any{"code": code})
	}

	s.metrics.Inc(observability.CounterTicketsCancelled)
	s.logger.Info("ticket cancelled", zap.String("code", code))
	s.publish(ctx, events.NewEvent(events.EventTicketCancelled, code,
		events.Actor{ClientID: ticket.ClientID}, now,
		events.TicketCancelledPayload{CategoryID: category.ID}))

	return ticket, s.commit(ctx, repository.NewBatch().Ticket(ticket).Category(category))
}

// QueuePosition returns the 1-based position of a waiting ticket, or -1
// when the ticket is unknown or no longer waiting.
func (s *DispatchService) QueuePosition(code string) int {
	ticket, err := s.registry.Tickets.Get(code)
	if err != nil {
		return -1
	}
	category, err := s.registry.Categories.Get(ticket.CategoryID)
	if err != nil {
		return -1
	}
	return category.Position(code)
}

// GetTicket returns a ticket by code.
func (s *DispatchService) GetTicket(code string) (*domain.Ticket, error) {
	ticket, err := s.registry.Tickets.Get(code)
	if err != nil {
		return nil, lookupError(err, "ticket", map[string]any{"code": code})
	}
	return ticket, nil
}

// WaitingTickets returns the queue of a category, head first.
func (s *DispatchService) WaitingTickets(categoryID int) ([]*domain.Ticket, error) {
	category, err := s.registry.Categories.Get(categoryID)
	if err != nil {
		return nil, lookupError(err, "category", map[string]any{"category_id": categoryID})
	}
	return category.PeekAll(), nil
}

// TicketsByClient lists every ticket a client requested.
func (s *DispatchService) TicketsByClient(clientID string) []*domain.Ticket {
	return s.registry.Tickets.List(repository.TicketFilter{ClientID: clientID})
}

// TicketsByEmployee lists tickets an employee attended or is attending.
func (s *DispatchService) TicketsByEmployee(employeeID string) []*domain.Ticket {
	return s.registry.Tickets.List(repository.TicketFilter{EmployeeID: employeeID})
}

// CurrentTicket returns the ticket an employee is serving, nil when idle.
func (s *DispatchService) CurrentTicket(employeeID string) (*domain.Ticket, error) {
	employee, err := s.registry.Users.Employee(employeeID)
	if err != nil {
		return nil, lookupError(err, "employee", map[string]any{"employee_id": employeeID})
	}
	return employee.CurrentTicket(), nil
}
