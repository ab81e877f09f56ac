package domain

import (
	"fmt"
	"sync"
)

const defaultDisplayMessage = "Welcome to the service center"

// DisplayBoard is the public call screen showing which ticket goes to
// which station.
type DisplayBoard struct {
	mu            sync.RWMutex
	message       string
	currentTicket string
	station       int
}

// DisplayState is a copy of the board contents.
type DisplayState struct {
	Message       string `json:"message"`
	CurrentTicket string `json:"current_ticket,omitempty"`
	Station       int    `json:"station,omitempty"`
}

// NewDisplayBoard returns a board showing the welcome message.
func NewDisplayBoard() *DisplayBoard {
	return &DisplayBoard{message: defaultDisplayMessage}
}

// Show calls ticket code to the given station number.
func (d *DisplayBoard) Show(code string, station int) bool {
	if code == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.currentTicket = code
	d.station = station
	d.message = fmt.Sprintf("Ticket %s please go to station %d", code, station)
	return true
}

// Alert flashes a call for code.
func (d *DisplayBoard) Alert(code string) bool {
	if code == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.message = fmt.Sprintf("**ALERT** Ticket %s is being called!", code)
	return true
}

// Update replaces the free-text message.
func (d *DisplayBoard) Update(message string) bool {
	if message == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.message = message
	return true
}

// Clear blanks the board.
func (d *DisplayBoard) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.message = ""
	d.currentTicket = ""
	d.station = 0
}

// State returns the current board contents.
func (d *DisplayBoard) State() DisplayState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return DisplayState{Message: d.message, CurrentTicket: d.currentTicket, Station: d.station}
}
