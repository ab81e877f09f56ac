package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/service-center/internal/domain"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// TicketFilter narrows ticket listings. Zero values match everything.
type TicketFilter struct {
	ClientID      string
	EmployeeID    string
	CategoryID    int
	Statuses      []domain.TicketStatus
	GeneratedFrom time.Time
	GeneratedTo   time.Time
}

func (f TicketFilter) matches(t *domain.Ticket) bool {
	if f.ClientID != "" && t.ClientID != f.ClientID {
		return false
	}
	if f.CategoryID != 0 && t.CategoryID != f.CategoryID {
		return false
	}
	if !f.GeneratedFrom.IsZero() && t.GeneratedAt.Before(f.GeneratedFrom) {
		return false
	}
	if !f.GeneratedTo.IsZero() && !t.GeneratedAt.Before(f.GeneratedTo) {
		return false
	}
	if f.EmployeeID != "" && t.EmployeeID() != f.EmployeeID {
		return false
	}
	if len(f.Statuses) > 0 {
		status := t.Status()
		for _, s := range f.Statuses {
			if s == status {
				return true
			}
		}
		return false
	}
	return true
}

// TicketRepository holds every ticket ever issued, keyed by code.
type TicketRepository interface {
	Add(ticket *domain.Ticket) error
	Get(code string) (*domain.Ticket, error)
	List(filter TicketFilter) []*domain.Ticket
}

type ticketRepository struct {
	mu     sync.RWMutex
	byCode map[string]*domain.Ticket
}

// NewTicketRepository instantiates repository.
func NewTicketRepository() TicketRepository {
	return &ticketRepository{byCode: make(map[string]*domain.Ticket)}
}

func (r *ticketRepository) Add(ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[ticket.Code]; ok {
		return apperrors.NewConflict("ticket code already issued", map[string]any{"code": ticket.Code})
	}
	r.byCode[ticket.Code] = ticket
	return nil
}

func (r *ticketRepository) Get(code string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byCode[code]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", code, apperrors.ErrNotFound)
	}
	return t, nil
}

// List returns matching tickets ordered by generation time, then code.
func (r *ticketRepository) List(filter TicketFilter) []*domain.Ticket {
	r.mu.RLock()
	all := make([]*domain.Ticket, 0, len(r.byCode))
	for _, t := range r.byCode {
		all = append(all, t)
	}
	r.mu.RUnlock()

	out := all[:0]
	for _, t := range all {
		if filter.matches(t) {
			out = append(out, t)
		}
	}
	sortTickets(out)
	return out
}

func sortTickets(tickets []*domain.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		a, b := tickets[i], tickets[j]
		if !a.GeneratedAt.Equal(b.GeneratedAt) {
			return a.GeneratedAt.Before(b.GeneratedAt)
		}
		return a.Code < b.Code
	})
}
