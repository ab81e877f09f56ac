package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/service-center/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventTicketInProgress EventType = "ticket_in_progress"
	EventTicketCompleted  EventType = "ticket_completed"
	EventTicketCancelled  EventType = "ticket_cancelled"
)

// Actor identifies who triggered an event. Client-originated events carry
// only the client id.
type Actor struct {
	Kind     domain.UserKind `json:"kind,omitempty"`
	UserID   string          `json:"user_id,omitempty"`
	ClientID string          `json:"client_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TicketCode string      `json:"ticket_code"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// NewEvent stamps a fresh event id.
func NewEvent(eventType EventType, code string, actor Actor, at time.Time, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		TicketCode: code,
		Actor:      actor,
		Timestamp:  at,
		Payload:    payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CategoryID   int    `json:"category_id"`
	CategoryName string `json:"category_name"`
	ClientID     string `json:"client_id"`
	Position     int    `json:"position"`
}

// TicketInProgressPayload announces which station a ticket should go to.
type TicketInProgressPayload struct {
	Code          string `json:"code"`
	StationNumber int    `json:"station_number"`
	EmployeeID    string `json:"employee_id"`
}

// TicketCompletedPayload payload.
type TicketCompletedPayload struct {
	EmployeeID     string `json:"employee_id"`
	WaitingMinutes int64  `json:"waiting_minutes"`
	ServiceMinutes int64  `json:"service_minutes"`
}

// TicketCancelledPayload payload.
type TicketCancelledPayload struct {
	CategoryID int `json:"category_id"`
}
