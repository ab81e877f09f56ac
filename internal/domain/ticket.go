package domain

import (
	"sync"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusWaiting    TicketStatus = "WAITING"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusCompleted  TicketStatus = "COMPLETED"
	TicketStatusCancelled  TicketStatus = "CANCELLED"
)

// ticketTransitions lists the statuses each status may move to.
var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusWaiting:    {TicketStatusInProgress, TicketStatusCancelled},
	TicketStatusInProgress: {TicketStatusCompleted},
}

// ValidTicketTransition reports whether from -> to is allowed.
func ValidTicketTransition(from, to TicketStatus) bool {
	for _, allowed := range ticketTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusCompleted || s == TicketStatusCancelled
}

// Ticket is a single client's claim to service. Identity fields are fixed
// at creation; lifecycle fields are guarded by the ticket's own lock.
type Ticket struct {
	Code         string
	CategoryID   int
	CategoryName string
	ClientID     string
	GeneratedAt  time.Time

	mu          sync.RWMutex
	status      TicketStatus
	attentionAt *time.Time
	completedAt *time.Time
	employeeID  string
}

// TicketSnapshot is an immutable copy of a ticket's state.
type TicketSnapshot struct {
	Code         string       `json:"code"`
	Status       TicketStatus `json:"status"`
	CategoryID   int          `json:"category_id"`
	CategoryName string       `json:"category_name"`
	ClientID     string       `json:"client_id"`
	EmployeeID   string       `json:"employee_id,omitempty"`
	GeneratedAt  time.Time    `json:"generated_at"`
	AttentionAt  *time.Time   `json:"attention_at,omitempty"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// NewTicket creates a WAITING ticket.
func NewTicket(code string, category *Category, clientID string, now time.Time) *Ticket {
	return &Ticket{
		Code:         code,
		CategoryID:   category.ID,
		CategoryName: category.Name(),
		ClientID:     clientID,
		GeneratedAt:  now,
		status:       TicketStatusWaiting,
	}
}

// RestoreTicket rebuilds a ticket from a persisted snapshot.
func RestoreTicket(snap TicketSnapshot) *Ticket {
	status := snap.Status
	if status == "" {
		status = TicketStatusWaiting
	}
	return &Ticket{
		Code:         snap.Code,
		CategoryID:   snap.CategoryID,
		CategoryName: snap.CategoryName,
		ClientID:     snap.ClientID,
		GeneratedAt:  snap.GeneratedAt,
		status:       status,
		attentionAt:  copyTime(snap.AttentionAt),
		completedAt:  copyTime(snap.CompletedAt),
		employeeID:   snap.EmployeeID,
	}
}

// Status returns the current lifecycle state.
func (t *Ticket) Status() TicketStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// EmployeeID returns the employee holding or having held the ticket.
func (t *Ticket) EmployeeID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.employeeID
}

// ChangeStatus applies a transition. An invalid or empty target leaves the
// ticket untouched and returns false.
func (t *Ticket) ChangeStatus(to TicketStatus, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.changeStatusLocked(to, now)
}

func (t *Ticket) changeStatusLocked(to TicketStatus, now time.Time) bool {
	if to == "" || !ValidTicketTransition(t.status, to) {
		return false
	}
	switch to {
	case TicketStatusInProgress:
		at := notBefore(now, t.GeneratedAt)
		t.attentionAt = &at
	case TicketStatusCompleted:
		floor := t.GeneratedAt
		if t.attentionAt != nil {
			floor = *t.attentionAt
		}
		at := notBefore(now, floor)
		t.completedAt = &at
	}
	t.status = to
	return true
}

// start moves a waiting ticket into service for employeeID.
func (t *Ticket) start(employeeID string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.changeStatusLocked(TicketStatusInProgress, now) {
		return false
	}
	t.employeeID = employeeID
	return true
}

// WaitingTime returns whole minutes spent waiting. Once attention started it
// is fixed; a cancelled ticket that was never attended reports 0.
func (t *Ticket) WaitingTime(now time.Time) int64 {
	return t.Snapshot().WaitingTime(now)
}

// ServiceTime returns whole minutes spent in service.
func (t *Ticket) ServiceTime(now time.Time) int64 {
	return t.Snapshot().ServiceTime(now)
}

// Snapshot returns an immutable copy of the ticket.
func (t *Ticket) Snapshot() TicketSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return TicketSnapshot{
		Code:         t.Code,
		Status:       t.status,
		CategoryID:   t.CategoryID,
		CategoryName: t.CategoryName,
		ClientID:     t.ClientID,
		EmployeeID:   t.employeeID,
		GeneratedAt:  t.GeneratedAt,
		AttentionAt:  copyTime(t.attentionAt),
		CompletedAt:  copyTime(t.completedAt),
	}
}

// WaitingTime mirrors Ticket.WaitingTime on a snapshot.
func (s TicketSnapshot) WaitingTime(now time.Time) int64 {
	switch {
	case s.AttentionAt != nil:
		return minutesBetween(s.GeneratedAt, *s.AttentionAt)
	case s.Status == TicketStatusWaiting:
		return minutesBetween(s.GeneratedAt, now)
	default:
		return 0
	}
}

// ServiceTime mirrors Ticket.ServiceTime on a snapshot.
func (s TicketSnapshot) ServiceTime(now time.Time) int64 {
	switch {
	case s.AttentionAt != nil && s.CompletedAt != nil:
		return minutesBetween(*s.AttentionAt, *s.CompletedAt)
	case s.Status == TicketStatusInProgress && s.AttentionAt != nil:
		return minutesBetween(*s.AttentionAt, now)
	default:
		return 0
	}
}

func minutesBetween(from, to time.Time) int64 {
	if to.Before(from) {
		return 0
	}
	return int64(to.Sub(from) / time.Minute)
}

func notBefore(t, floor time.Time) time.Time {
	if t.Before(floor) {
		return floor
	}
	return t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
