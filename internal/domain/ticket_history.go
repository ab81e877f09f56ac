package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeCreated  TicketChangeType = "CREATED"
	ChangeTypeStatus   TicketChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee TicketChangeType = "ASSIGNEE_CHANGE"
)

// ChangedByClient marks entries triggered by the ticket holder rather than
// a staff account.
const ChangedByClient = "CLIENT"

// TicketHistory is an immutable audit trail entry.
type TicketHistory struct {
	ID            string           `json:"id"`
	TicketCode    string           `json:"ticket_code"`
	ChangedByType string           `json:"changed_by_type"`
	ChangedByID   string           `json:"changed_by_id,omitempty"`
	ChangeType    TicketChangeType `json:"change_type"`
	OldStatus     TicketStatus     `json:"old_status,omitempty"`
	NewStatus     TicketStatus     `json:"new_status"`
	StationNumber int              `json:"station_number,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
