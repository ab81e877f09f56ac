package dto

import (
	"github.com/spec-kit/service-center/internal/domain"
)

// RegisterStaffRequest payload for new employees and administrators.
type RegisterStaffRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Password    string `json:"password"`
	AccessLevel int    `json:"access_level"`
}

// EmployeeResponse describes an employee.
type EmployeeResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Availability  domain.Availability `json:"availability"`
	CurrentTicket string              `json:"current_ticket,omitempty"`
	Completed     int                 `json:"completed"`
}

// NewEmployeeResponse maps an employee.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Availability: e.Availability(),
		Completed:    len(e.CompletedTickets()),
	}
	if t := e.CurrentTicket(); t != nil {
		resp.CurrentTicket = t.Code
	}
	return resp
}

// CategoryRequest payload for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Prefix      string `json:"prefix"`
}

// CategoryResponse describes a category.
type CategoryResponse struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Prefix      string   `json:"prefix"`
	Active      bool     `json:"active"`
	Pending     int      `json:"pending"`
	Employees   []string `json:"employees,omitempty"`
}

// NewCategoryResponse maps a category.
func NewCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name(),
		Description: c.Description(),
		Prefix:      c.Prefix,
		Active:      c.IsActive(),
		Pending:     c.CountPending(),
		Employees:   c.Employees(),
	}
}

// NewCategoryResponses maps a category list.
func NewCategoryResponses(categories []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, NewCategoryResponse(c))
	}
	return out
}

// EmployeeAssignmentRequest names an employee to attach.
type EmployeeAssignmentRequest struct {
	EmployeeID string `json:"employee_id"`
}

// StationRequest payload for creating a station.
type StationRequest struct {
	Number int `json:"number"`
}

// StationCategoryRequest names a category to serve.
type StationCategoryRequest struct {
	CategoryID int `json:"category_id"`
}

// StationResponse describes a station.
type StationResponse struct {
	ID          int                  `json:"id"`
	Number      int                  `json:"number"`
	Status      domain.StationStatus `json:"status"`
	EmployeeID  string               `json:"employee_id,omitempty"`
	CategoryIDs []int                `json:"category_ids"`
}

// NewStationResponse maps a station.
func NewStationResponse(s *domain.Station) StationResponse {
	return StationResponse{
		ID:          s.ID,
		Number:      s.Number,
		Status:      s.Status(),
		EmployeeID:  s.EmployeeID(),
		CategoryIDs: s.CategoryIDs(),
	}
}

// NewStationResponses maps a station list.
func NewStationResponses(stations []*domain.Station) []StationResponse {
	out := make([]StationResponse, 0, len(stations))
	for _, s := range stations {
		out = append(out, NewStationResponse(s))
	}
	return out
}

// DisplayMessageRequest replaces the display board message.
type DisplayMessageRequest struct {
	Message string `json:"message"`
}
