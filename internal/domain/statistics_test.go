package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedSnapshot(t *testing.T, waiting, service time.Duration) TicketSnapshot {
	t.Helper()
	ticket := newTestTicket("GEN-001")
	require.True(t, ticket.ChangeStatus(TicketStatusInProgress, t0.Add(waiting)))
	require.True(t, ticket.ChangeStatus(TicketStatusCompleted, t0.Add(waiting+service)))
	return ticket.Snapshot()
}

func TestStatisticsOnlineAverages(t *testing.T) {
	day := DayWindow(t0)
	stats := NewServiceStatistics(day.Start, day.End)
	now := t0.Add(5 * time.Hour)

	wantWaiting := []float64{10, 15, 20}
	for i, minutes := range []time.Duration{10, 20, 30} {
		stats.RecordTicket(completedSnapshot(t, minutes*time.Minute, minutes*time.Minute), now)
		report := stats.Snapshot()
		assert.InDelta(t, wantWaiting[i], report.AverageWaitingTime, 0.0001)
		assert.InDelta(t, wantWaiting[i], report.AverageServiceTime, 0.0001)
	}

	report := stats.Snapshot()
	assert.Equal(t, 3, report.GeneratedTickets)
	assert.Equal(t, 3, report.AttendedTickets)
	assert.Equal(t, map[string]int{"General Inquiry": 3}, report.TicketsByCategory)
}

func TestStatisticsCountsEveryGeneratedTicket(t *testing.T) {
	stats := NewServiceStatistics(t0, t0.Add(24*time.Hour))

	stats.RecordTicket(newTestTicket("GEN-001").Snapshot(), t0)
	cancelled := newTestTicket("GEN-002")
	require.True(t, cancelled.ChangeStatus(TicketStatusCancelled, t0))
	stats.RecordTicket(cancelled.Snapshot(), t0)

	report := stats.Snapshot()
	assert.Equal(t, 2, report.GeneratedTickets)
	assert.Zero(t, report.AttendedTickets)
	assert.Zero(t, report.AverageWaitingTime)
	assert.Equal(t, 2, report.TicketsByCategory["General Inquiry"])
}

func TestStatisticsRecordCompletedIgnoresOpenTickets(t *testing.T) {
	stats := NewServiceStatistics(t0, t0.Add(24*time.Hour))
	stats.RecordCompleted(newTestTicket("GEN-001").Snapshot(), t0)
	assert.Zero(t, stats.Snapshot().AttendedTickets)
}

func TestStatisticsSnapshotIsDetached(t *testing.T) {
	stats := NewServiceStatistics(t0, t0.Add(24*time.Hour))
	stats.RecordGenerated(newTestTicket("GEN-001").Snapshot())
	stats.SetEmployeeRate("emp1", 2)

	report := stats.Snapshot()
	report.TicketsByCategory["General Inquiry"] = 99
	report.EmployeeRates["emp1"] = 99

	again := stats.Snapshot()
	assert.Equal(t, 1, again.TicketsByCategory["General Inquiry"])
	assert.InDelta(t, 2.0, again.EmployeeRates["emp1"], 0.0001)
}

func TestEmployeeProductivity(t *testing.T) {
	now := t0.Add(8 * time.Hour)
	assert.Zero(t, EmployeeProductivity(nil, now))

	tickets := []TicketSnapshot{
		completedSnapshot(t, 0, 30*time.Minute),
		completedSnapshot(t, 0, 30*time.Minute),
		completedSnapshot(t, 0, 60*time.Minute),
	}
	assert.InDelta(t, 1.5, EmployeeProductivity(tickets, now), 0.0001)

	instant := []TicketSnapshot{completedSnapshot(t, 0, 30*time.Second)}
	assert.Zero(t, EmployeeProductivity(instant, now))
}

func TestStatisticsReportText(t *testing.T) {
	report := StatisticsReport{
		Kind:               "DAILY",
		PeriodStart:        t0,
		PeriodEnd:          t0.Add(24 * time.Hour),
		GeneratedTickets:   4,
		AttendedTickets:    2,
		AverageWaitingTime: 12.5,
		TicketsByCategory:  map[string]int{"Billing": 1, "General Inquiry": 3},
		EmployeeRates:      map[string]float64{"emp1": 2},
		EmployeeNames:      map[string]string{"emp1": "Juan Lopez"},
	}
	text := report.Text()
	assert.Contains(t, text, "=== DAILY STATISTICS REPORT ===")
	assert.Contains(t, text, "Period: 2026-03-10 to 2026-03-11")
	assert.Contains(t, text, "Total tickets generated: 4")
	assert.Contains(t, text, "Average waiting time: 12.50 minutes")
	assert.Contains(t, text, "- Billing: 1\n- General Inquiry: 3")
	assert.Contains(t, text, "- Juan Lopez: 2.00")
}
