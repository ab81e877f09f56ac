package domain

import (
	"fmt"
	"sync"
)

// Category is a class of service with its own FIFO queue of waiting
// tickets. Details, queue and activation state are guarded by the category
// lock.
type Category struct {
	ID     int
	Prefix string

	mu          sync.Mutex
	name        string
	description string
	active      bool
	queue     []*Ticket
	employees []string
	sequence  int
}

// NewCategory returns an active category with an empty queue.
func NewCategory(id int, name, description, prefix string) *Category {
	return &Category{
		ID:          id,
		Prefix:      prefix,
		name:        name,
		description: description,
		active:      true,
	}
}

// Name returns the display name.
func (c *Category) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// Description returns the category description.
func (c *Category) Description() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.description
}

// IsActive reports whether new tickets may be enqueued.
func (c *Category) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Activate allows new enqueues. Idempotent.
func (c *Category) Activate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
}

// Deactivate blocks new enqueues. Queued tickets stay valid for dequeue.
func (c *Category) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
}

// SetDetails replaces the name and description. Empty values keep the
// current ones.
func (c *Category) SetDetails(name, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name != "" {
		c.name = name
	}
	if description != "" {
		c.description = description
	}
}

// Enqueue appends t to the tail. It fails for a nil ticket or an inactive
// category.
func (c *Category) Enqueue(t *Ticket) bool {
	if t == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return false
	}
	c.queue = append(c.queue, t)
	return true
}

// Dequeue removes and returns the head of the queue. The boolean is false
// when the queue is empty.
func (c *Category) Dequeue() (*Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return nil, false
	}
	head := c.queue[0]
	c.queue[0] = nil
	c.queue = c.queue[1:]
	return head, true
}

// PeekAll returns a copy of the queue in arrival order.
func (c *Category) PeekAll() []*Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Ticket, len(c.queue))
	copy(out, c.queue)
	return out
}

// CountPending returns the live queue length.
func (c *Category) CountPending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Remove takes the ticket with the given code out of the live queue.
func (c *Category) Remove(code string) (*Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.queue {
		if t.Code != code {
			continue
		}
		c.queue = append(c.queue[:i:i], c.queue[i+1:]...)
		return t, true
	}
	return nil, false
}

// Position returns the 1-based queue position of code, or -1.
func (c *Category) Position(code string) int {
	for i, t := range c.PeekAll() {
		if t.Code == code {
			return i + 1
		}
	}
	return -1
}

// NextCode reserves the next ticket code, e.g. GEN-001.
func (c *Category) NextCode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sequence++
	return fmt.Sprintf("%s-%03d", c.Prefix, c.sequence)
}

// Sequence returns the last issued code number.
func (c *Category) Sequence() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sequence
}

// RestoreSequence raises the code sequence to at least n.
func (c *Category) RestoreSequence(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > c.sequence {
		c.sequence = n
	}
}

// AssignEmployee allows employeeID to staff this category.
func (c *Category) AssignEmployee(employeeID string) bool {
	if employeeID == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.employees {
		if id == employeeID {
			return false
		}
	}
	c.employees = append(c.employees, employeeID)
	return true
}

// RemoveEmployee revokes employeeID.
func (c *Category) RemoveEmployee(employeeID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, id := range c.employees {
		if id == employeeID {
			c.employees = append(c.employees[:i:i], c.employees[i+1:]...)
			return true
		}
	}
	return false
}

// Employees returns the IDs allowed to staff the category.
func (c *Category) Employees() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.employees))
	copy(out, c.employees)
	return out
}
