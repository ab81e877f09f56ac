package domain

import "time"

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayWindow returns the calendar day containing t.
func DayWindow(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekWindow returns the Monday-to-Sunday week containing t.
func WeekWindow(t time.Time) Window {
	day := DayWindow(t).Start
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthWindow returns the calendar month containing t.
func MonthWindow(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}
