package dto

import (
	"time"

	"github.com/spec-kit/service-center/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	ClientID   string `json:"client_id"`
	CategoryID int    `json:"category_id"`
}

// CancelTicketRequest identifies the client withdrawing a ticket.
type CancelTicketRequest struct {
	ClientID string `json:"client_id"`
}

// TicketResponse describes a ticket.
type TicketResponse struct {
	Code         string              `json:"code"`
	Status       domain.TicketStatus `json:"status"`
	CategoryID   int                 `json:"category_id"`
	CategoryName string              `json:"category_name"`
	ClientID     string              `json:"client_id"`
	EmployeeID   string              `json:"employee_id,omitempty"`
	Position     int                 `json:"position,omitempty"`
	GeneratedAt  time.Time           `json:"generated_at"`
	AttentionAt  *time.Time          `json:"attention_at,omitempty"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
}

// PositionResponse reports where a ticket stands in its queue. Position is
// -1 once the ticket has left the queue.
type PositionResponse struct {
	Code     string              `json:"code"`
	Status   domain.TicketStatus `json:"status"`
	Position int                 `json:"position"`
}

// NewTicketResponse maps a ticket. position <= 0 is omitted.
func NewTicketResponse(t *domain.Ticket, position int) TicketResponse {
	snap := t.Snapshot()
	resp := TicketResponse{
		Code:         snap.Code,
		Status:       snap.Status,
		CategoryID:   snap.CategoryID,
		CategoryName: snap.CategoryName,
		ClientID:     snap.ClientID,
		EmployeeID:   snap.EmployeeID,
		GeneratedAt:  snap.GeneratedAt,
		AttentionAt:  snap.AttentionAt,
		CompletedAt:  snap.CompletedAt,
	}
	if position > 0 {
		resp.Position = position
	}
	return resp
}

// NewTicketResponses maps a ticket list without positions.
func NewTicketResponses(tickets []*domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, NewTicketResponse(t, 0))
	}
	return out
}

// StatisticsRangeQuery holds the bounds of an ad hoc report.
type StatisticsRangeQuery struct {
	From time.Time
	To   time.Time
}

// ProductivityResponse reports tickets per hour.
type ProductivityResponse struct {
	EmployeeID     string  `json:"employee_id"`
	TicketsPerHour float64 `json:"tickets_per_hour"`
}

// CategoryWaitResponse reports the average wait of a category.
type CategoryWaitResponse struct {
	CategoryID     int     `json:"category_id"`
	AverageMinutes float64 `json:"average_waiting_minutes"`
}
