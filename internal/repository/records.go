package repository

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/persistence"
)

// Document kinds.
const (
	KindCategory = "category"
	KindStation  = "station"
	KindUser     = "user"
	KindTicket   = "ticket"
	KindClient   = "client"
)

type categoryRecord struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Prefix      string   `json:"prefix"`
	Active      bool     `json:"active"`
	Sequence    int      `json:"sequence"`
	Queue       []string `json:"queue"`
	Employees   []string `json:"employees"`
}

type stationRecord struct {
	ID         int                  `json:"id"`
	Number     int                  `json:"number"`
	Status     domain.StationStatus `json:"status"`
	EmployeeID string               `json:"employee_id,omitempty"`
	Categories []int                `json:"categories"`
}

type userRecord struct {
	Kind         domain.UserKind     `json:"kind"`
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	PasswordHash string              `json:"password_hash"`
	AccessLevel  int                 `json:"access_level,omitempty"`
	Availability domain.Availability `json:"availability,omitempty"`
	Current      string              `json:"current_ticket,omitempty"`
	Completed    []string            `json:"completed_tickets,omitempty"`
}

type clientRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContactInfo string `json:"contact_info"`
}

func encode(kind, id string, v any) (persistence.Document, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return persistence.Document{}, fmt.Errorf("encode %s %s: %w", kind, id, err)
	}
	return persistence.Document{Kind: kind, ID: id, Body: body}, nil
}

func encodeCategory(c *domain.Category) (persistence.Document, error) {
	queue := c.PeekAll()
	codes := make([]string, len(queue))
	for i, t := range queue {
		codes[i] = t.Code
	}
	return encode(KindCategory, strconv.Itoa(c.ID), categoryRecord{
		ID:          c.ID,
		Name:        c.Name(),
		Description: c.Description(),
		Prefix:      c.Prefix,
		Active:      c.IsActive(),
		Sequence:    c.Sequence(),
		Queue:       codes,
		Employees:   c.Employees(),
	})
}

func encodeStation(s *domain.Station) (persistence.Document, error) {
	return encode(KindStation, strconv.Itoa(s.ID), stationRecord{
		ID:         s.ID,
		Number:     s.Number,
		Status:     s.Status(),
		EmployeeID: s.EmployeeID(),
		Categories: s.CategoryIDs(),
	})
}

func encodeUser(u domain.User) (persistence.Document, error) {
	rec := userRecord{Kind: u.Kind, ID: u.ID(), Name: u.Name(), PasswordHash: u.PasswordHash()}
	switch u.Kind {
	case domain.UserKindAdministrator:
		rec.AccessLevel = u.Administrator.AccessLevel
	case domain.UserKindEmployee:
		rec.Availability = u.Employee.Availability()
		if cur := u.Employee.CurrentTicket(); cur != nil {
			rec.Current = cur.Code
		}
		for _, t := range u.Employee.CompletedTickets() {
			rec.Completed = append(rec.Completed, t.Code)
		}
	default:
		return persistence.Document{}, fmt.Errorf("encode user %s: unknown kind %q", u.ID(), u.Kind)
	}
	return encode(KindUser, rec.ID, rec)
}

func encodeTicket(t *domain.Ticket) (persistence.Document, error) {
	return encode(KindTicket, t.Code, t.Snapshot())
}

func encodeClient(c domain.Client) (persistence.Document, error) {
	return encode(KindClient, c.ID, clientRecord{ID: c.ID, Name: c.Name, ContactInfo: c.ContactInfo})
}
