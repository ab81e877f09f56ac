package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/repository"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// Report kinds.
const (
	ReportDaily   = "DAILY"
	ReportWeekly  = "WEEKLY"
	ReportMonthly = "MONTHLY"
	ReportRange   = "PERIOD"
)

// StatisticsService owns the live daily aggregate and builds period
// reports by rescanning tickets.
type StatisticsService struct {
	base

	mu    sync.Mutex
	day   domain.Window
	daily *domain.ServiceStatistics
}

// NewStatisticsService builds the service and primes today's aggregate from
// the loaded tickets.
func NewStatisticsService(deps Dependencies) *StatisticsService {
	s := &StatisticsService{base: newBase(deps)}
	s.mu.Lock()
	s.resetDay(s.now())
	s.mu.Unlock()
	return s
}

// resetDay rebuilds the daily aggregate for the day containing now. Caller
// holds s.mu.
func (s *StatisticsService) resetDay(now time.Time) {
	s.day = domain.DayWindow(now)
	s.daily = s.aggregate(s.day, now)
	s.logger.Debug("statistics day opened", zap.Time("start", s.day.Start))
}

// rollover moves to a new day when the clock has crossed midnight. Caller
// holds s.mu.
func (s *StatisticsService) rollover(now time.Time) {
	if !s.day.Contains(now) {
		s.resetDay(now)
	}
}

// OnTicketGenerated counts a new ticket in today's aggregate.
func (s *StatisticsService) OnTicketGenerated(t domain.TicketSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover(s.now())
	if s.day.Contains(t.GeneratedAt) {
		s.daily.RecordGenerated(t)
	}
}

// OnTicketCompleted folds a completed ticket generated today into the
// running averages.
func (s *StatisticsService) OnTicketCompleted(t domain.TicketSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.rollover(now)
	if s.day.Contains(t.GeneratedAt) {
		s.daily.RecordCompleted(t, now)
	}
}

// DailyStatistics returns today's running aggregate.
func (s *StatisticsService) DailyStatistics() domain.StatisticsReport {
	s.mu.Lock()
	now := s.now()
	s.rollover(now)
	report := s.daily.Snapshot()
	day := s.day
	s.mu.Unlock()

	report.Kind = ReportDaily
	s.attachEmployeeRates(&report, day, now)
	return report
}

// WeeklyStatistics reports the current Monday-to-Sunday week.
func (s *StatisticsService) WeeklyStatistics() domain.StatisticsReport {
	return s.report(ReportWeekly, domain.WeekWindow(s.now()))
}

// MonthlyStatistics reports the current calendar month.
func (s *StatisticsService) MonthlyStatistics() domain.StatisticsReport {
	return s.report(ReportMonthly, domain.MonthWindow(s.now()))
}

// StatisticsForRange reports tickets generated in [start, end).
func (s *StatisticsService) StatisticsForRange(start, end time.Time) (domain.StatisticsReport, error) {
	if !start.Before(end) {
		return domain.StatisticsReport{}, apperrors.NewValidationError("range start must be before end", map[string]any{
			"start": start, "end": end,
		})
	}
	return s.report(ReportRange, domain.Window{Start: start, End: end}), nil
}

func (s *StatisticsService) report(kind string, w domain.Window) domain.StatisticsReport {
	now := s.now()
	report := s.aggregate(w, now).Snapshot()
	report.Kind = kind
	s.attachEmployeeRates(&report, w, now)
	return report
}

func (s *StatisticsService) aggregate(w domain.Window, now time.Time) *domain.ServiceStatistics {
	stats := domain.NewServiceStatistics(w.Start, w.End)
	for _, t := range s.registry.Tickets.List(repository.TicketFilter{GeneratedFrom: w.Start, GeneratedTo: w.End}) {
		stats.RecordTicket(t.Snapshot(), now)
	}
	return stats
}

// attachEmployeeRates adds tickets-per-hour for tickets each employee
// completed inside w.
func (s *StatisticsService) attachEmployeeRates(report *domain.StatisticsReport, w domain.Window, now time.Time) {
	if report.EmployeeRates == nil {
		report.EmployeeRates = make(map[string]float64)
	}
	report.EmployeeNames = make(map[string]string)
	for _, emp := range s.registry.Users.Employees() {
		var inWindow []domain.TicketSnapshot
		for _, t := range emp.CompletedTickets() {
			snap := t.Snapshot()
			if snap.CompletedAt != nil && w.Contains(*snap.CompletedAt) {
				inWindow = append(inWindow, snap)
			}
		}
		report.EmployeeRates[emp.ID] = domain.EmployeeProductivity(inWindow, now)
		report.EmployeeNames[emp.ID] = emp.Name
	}
}

// EmployeeProductivity returns tickets per hour over the employee's whole
// completed history.
func (s *StatisticsService) EmployeeProductivity(employeeID string) (float64, error) {
	emp, err := s.registry.Users.Employee(employeeID)
	if err != nil {
		return 0, lookupError(err, "employee", map[string]any{"employee_id": employeeID})
	}
	return domain.EmployeeProductivity(snapshots(emp.CompletedTickets()), s.now()), nil
}

// EmployeeProductivityAll returns EmployeeProductivity for every employee.
func (s *StatisticsService) EmployeeProductivityAll() map[string]float64 {
	now := s.now()
	out := make(map[string]float64)
	for _, emp := range s.registry.Users.Employees() {
		out[emp.ID] = domain.EmployeeProductivity(snapshots(emp.CompletedTickets()), now)
	}
	return out
}

// AverageWaitingTimeByCategory averages waiting minutes over the category's
// tickets that have been attended. 0 when there are none.
func (s *StatisticsService) AverageWaitingTimeByCategory(categoryID int) (float64, error) {
	if _, err := s.registry.Categories.Get(categoryID); err != nil {
		return 0, lookupError(err, "category", map[string]any{"category_id": categoryID})
	}
	now := s.now()
	var total int64
	var n int
	for _, t := range s.registry.Tickets.List(repository.TicketFilter{CategoryID: categoryID}) {
		snap := t.Snapshot()
		if snap.AttentionAt == nil {
			continue
		}
		total += snap.WaitingTime(now)
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return float64(total) / float64(n), nil
}

func snapshots(tickets []*domain.Ticket) []domain.TicketSnapshot {
	out := make([]domain.TicketSnapshot, len(tickets))
	for i, t := range tickets {
		out[i] = t.Snapshot()
	}
	return out
}
