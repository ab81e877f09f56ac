package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/service-center/internal/domain"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// TicketHistoryRepository stores audit entries. Entries are kept in memory
// only; a restart starts a fresh trail.
type TicketHistoryRepository interface {
	Create(ctx context.Context, history *domain.TicketHistory) error
	ListByTicket(ctx context.Context, code string) ([]domain.TicketHistory, error)
}

type ticketHistoryRepository struct {
	mu       sync.RWMutex
	byTicket map[string][]domain.TicketHistory
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository() TicketHistoryRepository {
	return &ticketHistoryRepository{byTicket: make(map[string][]domain.TicketHistory)}
}

func (r *ticketHistoryRepository) Create(_ context.Context, history *domain.TicketHistory) error {
	if history == nil || history.TicketCode == "" {
		return apperrors.NewValidationError("history entry requires a ticket code", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTicket[history.TicketCode] = append(r.byTicket[history.TicketCode], *history)
	return nil
}

// ListByTicket returns entries in insertion order.
func (r *ticketHistoryRepository) ListByTicket(_ context.Context, code string) ([]domain.TicketHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.byTicket[code]
	out := make([]domain.TicketHistory, len(entries))
	copy(out, entries)
	return out, nil
}
