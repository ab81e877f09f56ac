package domain

import "sync"

// StationStatus enumerates operational states of a station.
type StationStatus string

const (
	StationStatusOpen   StationStatus = "OPEN"
	StationStatusClosed StationStatus = "CLOSED"
)

// Station is a physical service point. It references its employee by ID
// only; the employee side resolves its station through the registry.
type Station struct {
	ID     int
	Number int

	mu          sync.RWMutex
	status      StationStatus
	employeeID  string
	categoryIDs []int
}

// NewStation returns a closed, unstaffed station.
func NewStation(id, number int) *Station {
	return &Station{ID: id, Number: number, status: StationStatusClosed}
}

// Status returns OPEN or CLOSED.
func (s *Station) Status() StationStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// EmployeeID returns the staffing employee, empty when unstaffed.
func (s *Station) EmployeeID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employeeID
}

// Open succeeds only when an employee is assigned.
func (s *Station) Open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.employeeID == "" {
		return false
	}
	s.status = StationStatusOpen
	return true
}

// Close always succeeds.
func (s *Station) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StationStatusClosed
}

// SetEmployee binds employeeID. Clearing the employee also closes the
// station so it can never be OPEN unstaffed.
func (s *Station) SetEmployee(employeeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employeeID = employeeID
	if employeeID == "" {
		s.status = StationStatusClosed
	}
}

// AddCategory appends categoryID to the supported list. Order is the
// assignment priority.
func (s *Station) AddCategory(categoryID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.categoryIDs {
		if id == categoryID {
			return false
		}
	}
	s.categoryIDs = append(s.categoryIDs, categoryID)
	return true
}

// RemoveCategory drops categoryID, keeping the order of the rest.
func (s *Station) RemoveCategory(categoryID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range s.categoryIDs {
		if id == categoryID {
			s.categoryIDs = append(s.categoryIDs[:i:i], s.categoryIDs[i+1:]...)
			return true
		}
	}
	return false
}

// Supports reports whether categoryID is served here.
func (s *Station) Supports(categoryID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.categoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// CategoryIDs returns the supported categories in declared order.
func (s *Station) CategoryIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, len(s.categoryIDs))
	copy(out, s.categoryIDs)
	return out
}

// RestoreStation rebuilds a station after a load. An OPEN status without an
// employee is downgraded to CLOSED.
func RestoreStation(id, number int, status StationStatus, employeeID string, categoryIDs []int) *Station {
	st := NewStation(id, number)
	st.employeeID = employeeID
	for _, cid := range categoryIDs {
		st.AddCategory(cid)
	}
	if status == StationStatusOpen && employeeID != "" {
		st.status = StationStatusOpen
	}
	return st
}
