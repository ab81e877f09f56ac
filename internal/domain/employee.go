package domain

import (
	"sync"
	"time"
)

// Availability enumerates employee availability states.
type Availability string

const (
	AvailabilityOffline   Availability = "OFFLINE"
	AvailabilityAvailable Availability = "AVAILABLE"
	AvailabilityBusy      Availability = "BUSY"
	AvailabilityPaused    Availability = "PAUSED"
)

// Employee staffs a station and consumes tickets. Availability, the
// current ticket and the completed history are guarded by the employee
// lock; BUSY holds exactly when current is an IN_PROGRESS ticket.
type Employee struct {
	ID           string
	Name         string
	PasswordHash string

	mu           sync.Mutex
	availability Availability
	current      *Ticket
	completed    []*Ticket
}

// NewEmployee returns an OFFLINE employee with no history.
func NewEmployee(id, name, passwordHash string) *Employee {
	return &Employee{
		ID:           id,
		Name:         name,
		PasswordHash: passwordHash,
		availability: AvailabilityOffline,
	}
}

// Availability returns the current availability state.
func (e *Employee) Availability() Availability {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.availability
}

// CurrentTicket returns the ticket in service, if any.
func (e *Employee) CurrentTicket() *Ticket {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Resume moves OFFLINE or PAUSED to AVAILABLE.
func (e *Employee) Resume() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.availability != AvailabilityPaused && e.availability != AvailabilityOffline {
		return false
	}
	e.availability = AvailabilityAvailable
	return true
}

// Pause moves AVAILABLE or OFFLINE to PAUSED. Rejected while BUSY.
func (e *Employee) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.availability != AvailabilityAvailable && e.availability != AvailabilityOffline {
		return false
	}
	e.availability = AvailabilityPaused
	return true
}

// GoOffline moves any non-BUSY state to OFFLINE.
func (e *Employee) GoOffline() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.availability == AvailabilityBusy {
		return false
	}
	e.availability = AvailabilityOffline
	return true
}

// Accept pulls a ticket from next and takes it into service, all under the
// employee lock. It returns nil without side effects when the employee is
// not AVAILABLE or next yields nothing.
func (e *Employee) Accept(now time.Time, next func() *Ticket) *Ticket {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.availability != AvailabilityAvailable {
		return nil
	}
	t := next()
	if t == nil {
		return nil
	}
	if !t.start(e.ID, now) {
		return nil
	}
	e.current = t
	e.availability = AvailabilityBusy
	return t
}

// Complete finishes the ticket currently in service.
func (e *Employee) Complete(t *Ticket, now time.Time) bool {
	if t == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != t {
		return false
	}
	if !t.ChangeStatus(TicketStatusCompleted, now) {
		return false
	}
	e.completed = append(e.completed, t)
	e.current = nil
	e.availability = AvailabilityAvailable
	return true
}

// CompletedTickets returns a copy of the completed history.
func (e *Employee) CompletedTickets() []*Ticket {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Ticket, len(e.completed))
	copy(out, e.completed)
	return out
}

// AttentionSummary reports how many tickets were completed and the average
// service time in minutes.
type AttentionSummary struct {
	EmployeeID         string  `json:"employee_id"`
	Name               string  `json:"name"`
	Completed          int     `json:"completed"`
	AverageServiceTime float64 `json:"average_service_minutes"`
}

// Summary builds the employee's attention summary.
func (e *Employee) Summary(now time.Time) AttentionSummary {
	tickets := e.CompletedTickets()
	summary := AttentionSummary{EmployeeID: e.ID, Name: e.Name, Completed: len(tickets)}
	if len(tickets) == 0 {
		return summary
	}
	var total int64
	for _, t := range tickets {
		total += t.ServiceTime(now)
	}
	summary.AverageServiceTime = float64(total) / float64(len(tickets))
	return summary
}

// RestoreEmployee rebuilds an employee after a load. A BUSY state without
// an in-progress ticket is downgraded to AVAILABLE.
func RestoreEmployee(id, name, passwordHash string, availability Availability, current *Ticket, completed []*Ticket) *Employee {
	e := NewEmployee(id, name, passwordHash)
	if availability != "" {
		e.availability = availability
	}
	e.completed = append(e.completed, completed...)
	if current != nil && current.Status() == TicketStatusInProgress {
		e.current = current
		e.availability = AvailabilityBusy
	} else if e.availability == AvailabilityBusy {
		e.availability = AvailabilityAvailable
	}
	return e
}
