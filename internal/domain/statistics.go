package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ServiceStatistics folds ticket events into running counters for one
// period. It is not safe for concurrent use; owners serialize access.
type ServiceStatistics struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	generated          int
	attended           int
	averageWaitingTime float64
	averageServiceTime float64
	byCategory         map[string]int
	employeeRates      map[string]float64
}

// NewServiceStatistics returns an empty aggregate for [start, end).
func NewServiceStatistics(start, end time.Time) *ServiceStatistics {
	return &ServiceStatistics{
		PeriodStart:   start,
		PeriodEnd:     end,
		byCategory:    make(map[string]int),
		employeeRates: make(map[string]float64),
	}
}

// RecordTicket counts a ticket as generated and, when it is completed,
// folds its waiting and service times into the running averages.
func (s *ServiceStatistics) RecordTicket(t TicketSnapshot, now time.Time) {
	s.RecordGenerated(t)
	if t.Status == TicketStatusCompleted {
		s.RecordCompleted(t, now)
	}
}

// RecordGenerated counts a newly generated ticket.
func (s *ServiceStatistics) RecordGenerated(t TicketSnapshot) {
	s.generated++
	if t.CategoryName != "" {
		s.byCategory[t.CategoryName]++
	}
}

// RecordCompleted folds a completed ticket into the online means:
// avg_n = (avg_{n-1} * (n-1) + sample) / n.
func (s *ServiceStatistics) RecordCompleted(t TicketSnapshot, now time.Time) {
	if t.Status != TicketStatusCompleted {
		return
	}
	s.attended++
	n := float64(s.attended)
	s.averageWaitingTime = (s.averageWaitingTime*(n-1) + float64(t.WaitingTime(now))) / n
	s.averageServiceTime = (s.averageServiceTime*(n-1) + float64(t.ServiceTime(now))) / n
}

// SetEmployeeRate stores tickets-per-hour for an employee.
func (s *ServiceStatistics) SetEmployeeRate(employeeID string, ticketsPerHour float64) {
	s.employeeRates[employeeID] = ticketsPerHour
}

// Snapshot returns an immutable report of the aggregate.
func (s *ServiceStatistics) Snapshot() StatisticsReport {
	byCategory := make(map[string]int, len(s.byCategory))
	for k, v := range s.byCategory {
		byCategory[k] = v
	}
	rates := make(map[string]float64, len(s.employeeRates))
	for k, v := range s.employeeRates {
		rates[k] = v
	}
	return StatisticsReport{
		PeriodStart:        s.PeriodStart,
		PeriodEnd:          s.PeriodEnd,
		GeneratedTickets:   s.generated,
		AttendedTickets:    s.attended,
		AverageWaitingTime: s.averageWaitingTime,
		AverageServiceTime: s.averageServiceTime,
		TicketsByCategory:  byCategory,
		EmployeeRates:      rates,
	}
}

// EmployeeProductivity returns completed tickets per hour of service time.
// It is 0 when there are no tickets or no measurable service time.
func EmployeeProductivity(completed []TicketSnapshot, now time.Time) float64 {
	if len(completed) == 0 {
		return 0
	}
	var hours float64
	for _, t := range completed {
		hours += float64(t.ServiceTime(now)) / 60.0
	}
	if hours <= 0 {
		return 0
	}
	return float64(len(completed)) / hours
}

// StatisticsReport is an immutable view of a statistics period.
type StatisticsReport struct {
	Kind               string             `json:"kind"`
	PeriodStart        time.Time          `json:"period_start"`
	PeriodEnd          time.Time          `json:"period_end"`
	GeneratedTickets   int                `json:"generated_tickets"`
	AttendedTickets    int                `json:"attended_tickets"`
	AverageWaitingTime float64            `json:"average_waiting_minutes"`
	AverageServiceTime float64            `json:"average_service_minutes"`
	TicketsByCategory  map[string]int     `json:"tickets_by_category"`
	EmployeeRates      map[string]float64 `json:"employee_tickets_per_hour"`
	EmployeeNames      map[string]string  `json:"-"`
}

// Text renders the plain-text report.
func (r StatisticsReport) Text() string {
	var b strings.Builder
	kind := r.Kind
	if kind == "" {
		kind = "PERIOD"
	}
	fmt.Fprintf(&b, "=== %s STATISTICS REPORT ===\n", kind)
	fmt.Fprintf(&b, "Period: %s to %s\n", r.PeriodStart.Format(time.DateOnly), r.PeriodEnd.Format(time.DateOnly))
	fmt.Fprintf(&b, "Total tickets generated: %d\n", r.GeneratedTickets)
	fmt.Fprintf(&b, "Total tickets attended: %d\n", r.AttendedTickets)
	fmt.Fprintf(&b, "Average waiting time: %.2f minutes\n", r.AverageWaitingTime)
	fmt.Fprintf(&b, "Average service time: %.2f minutes\n", r.AverageServiceTime)

	b.WriteString("\nTickets by Category:\n")
	for _, name := range sortedKeys(r.TicketsByCategory) {
		fmt.Fprintf(&b, "- %s: %d\n", name, r.TicketsByCategory[name])
	}

	if len(r.EmployeeRates) > 0 {
		b.WriteString("\nEmployee Performance (tickets per hour):\n")
		for _, id := range sortedKeys(r.EmployeeRates) {
			label := id
			if name, ok := r.EmployeeNames[id]; ok && name != "" {
				label = name
			}
			fmt.Fprintf(&b, "- %s: %.2f\n", label, r.EmployeeRates[id])
		}
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
