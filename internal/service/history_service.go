package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/events"
	"github.com/spec-kit/service-center/internal/repository"
)

// HistoryService turns ticket events into an audit trail per ticket.
type HistoryService struct {
	base
	history repository.TicketHistoryRepository
}

// NewHistoryService creates the service. A nil repository gets an in-memory
// one.
func NewHistoryService(deps Dependencies, history repository.TicketHistoryRepository) *HistoryService {
	if history == nil {
		history = repository.NewTicketHistoryRepository()
	}
	return &HistoryService{base: newBase(deps), history: history}
}

// RegisterHandlers subscribes to every ticket event.
func (s *HistoryService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketInProgress,
		events.EventTicketCompleted,
		events.EventTicketCancelled,
	} {
		s.dispatcher.Subscribe(eventType, s.Record)
	}
}

// Record appends the history entry for event.
func (s *HistoryService) Record(ctx context.Context, event events.Event) error {
	entry := historyEntry(event)
	if entry == nil {
		return nil
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("record ticket history", zap.String("ticket", event.TicketCode), zap.Error(err))
		return err
	}
	return nil
}

// History lists the trail for code, oldest first.
func (s *HistoryService) History(ctx context.Context, code string) ([]domain.TicketHistory, error) {
	if _, err := s.registry.Tickets.Get(code); err != nil {
		return nil, lookupError(err, "ticket", map[string]any{"code": code})
	}
	return s.history.ListByTicket(ctx, code)
}

func historyEntry(event events.Event) *domain.TicketHistory {
	entry := &domain.TicketHistory{
		ID:         event.ID,
		TicketCode: event.TicketCode,
		CreatedAt:  event.Timestamp,
	}
	if event.Actor.ClientID != "" {
		entry.ChangedByType = domain.ChangedByClient
		entry.ChangedByID = event.Actor.ClientID
	} else {
		entry.ChangedByType = string(event.Actor.Kind)
		entry.ChangedByID = event.Actor.UserID
	}

	switch event.Type {
	case events.EventTicketCreated:
		entry.ChangeType = domain.ChangeTypeCreated
		entry.NewStatus = domain.TicketStatusWaiting
	case events.EventTicketInProgress:
		entry.ChangeType = domain.ChangeTypeAssignee
		entry.OldStatus = domain.TicketStatusWaiting
		entry.NewStatus = domain.TicketStatusInProgress
		if p, ok := event.Payload.(events.TicketInProgressPayload); ok {
			entry.StationNumber = p.StationNumber
		}
	case events.EventTicketCompleted:
		entry.ChangeType = domain.ChangeTypeStatus
		entry.OldStatus = domain.TicketStatusInProgress
		entry.NewStatus = domain.TicketStatusCompleted
	case events.EventTicketCancelled:
		entry.ChangeType = domain.ChangeTypeStatus
		entry.OldStatus = domain.TicketStatusWaiting
		entry.NewStatus = domain.TicketStatusCancelled
	default:
		return nil
	}
	return entry
}
