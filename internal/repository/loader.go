package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/persistence"
)

// Loader rebuilds a Registry from the document store.
type Loader struct {
	store  persistence.DocumentStore
	logger *zap.Logger
}

// NewLoader instantiates a loader.
func NewLoader(store persistence.DocumentStore, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{store: store, logger: logger}
}

// Load reads every document kind and re-resolves the references between
// them: category queues and employee histories point at tickets by code,
// stations point at employees by id.
func (l *Loader) Load(ctx context.Context) (*Registry, error) {
	reg := NewRegistry()

	tickets, err := l.loadTickets(ctx, reg)
	if err != nil {
		return nil, err
	}
	if err := l.loadCategories(ctx, reg, tickets); err != nil {
		return nil, err
	}
	if err := l.loadUsers(ctx, reg, tickets); err != nil {
		return nil, err
	}
	if err := l.loadStations(ctx, reg); err != nil {
		return nil, err
	}
	if err := l.loadClients(ctx, reg); err != nil {
		return nil, err
	}

	l.logger.Info("state loaded",
		zap.Int("tickets", len(tickets)),
		zap.Int("categories", len(reg.Categories.List())),
		zap.Int("stations", len(reg.Stations.List())),
		zap.Int("users", len(reg.Users.List())),
		zap.Int("clients", len(reg.Clients.List())),
	)
	return reg, nil
}

func decodeAll[T any](ctx context.Context, store persistence.DocumentStore, kind string) ([]T, error) {
	docs, err := store.Load(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var rec T
		if err := json.Unmarshal(d.Body, &rec); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", kind, d.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (l *Loader) loadTickets(ctx context.Context, reg *Registry) (map[string]*domain.Ticket, error) {
	snaps, err := decodeAll[domain.TicketSnapshot](ctx, l.store, KindTicket)
	if err != nil {
		return nil, err
	}
	tickets := make(map[string]*domain.Ticket, len(snaps))
	for _, snap := range snaps {
		t := domain.RestoreTicket(snap)
		if err := reg.Tickets.Add(t); err != nil {
			return nil, err
		}
		tickets[t.Code] = t
	}
	return tickets, nil
}

func (l *Loader) loadCategories(ctx context.Context, reg *Registry, tickets map[string]*domain.Ticket) error {
	recs, err := decodeAll[categoryRecord](ctx, l.store, KindCategory)
	if err != nil {
		return err
	}

	waiting := make(map[int][]*domain.Ticket)
	for _, t := range reg.Tickets.List(TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusWaiting}}) {
		waiting[t.CategoryID] = append(waiting[t.CategoryID], t)
	}

	for _, rec := range recs {
		c := domain.NewCategory(rec.ID, rec.Name, rec.Description, rec.Prefix)
		for _, id := range rec.Employees {
			c.AssignEmployee(id)
		}

		queued := make(map[string]bool)
		for _, code := range rec.Queue {
			t, ok := tickets[code]
			if !ok || t.CategoryID != c.ID || t.Status() != domain.TicketStatusWaiting || queued[code] {
				l.logger.Warn("dropping stale queue entry", zap.Int("category", c.ID), zap.String("ticket", code))
				continue
			}
			c.Enqueue(t)
			queued[code] = true
		}
		// Waiting tickets saved after the category document are appended in
		// arrival order.
		for _, t := range waiting[c.ID] {
			if !queued[t.Code] {
				c.Enqueue(t)
				queued[t.Code] = true
			}
		}

		seq := rec.Sequence
		for _, t := range reg.Tickets.List(TicketFilter{CategoryID: c.ID}) {
			if n := codeSequence(t.Code); n > seq {
				seq = n
			}
		}
		c.RestoreSequence(seq)

		if !rec.Active {
			c.Deactivate()
		}
		if err := reg.Categories.Add(c); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadUsers(ctx context.Context, reg *Registry, tickets map[string]*domain.Ticket) error {
	recs, err := decodeAll[userRecord](ctx, l.store, KindUser)
	if err != nil {
		return err
	}

	holding := make(map[string]*domain.Ticket)
	for _, t := range reg.Tickets.List(TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusInProgress}}) {
		if id := t.EmployeeID(); id != "" {
			holding[id] = t
		}
	}

	for _, rec := range recs {
		var user domain.User
		switch rec.Kind {
		case domain.UserKindAdministrator:
			user = domain.AdministratorUser(&domain.Administrator{
				ID:           rec.ID,
				Name:         rec.Name,
				PasswordHash: rec.PasswordHash,
				AccessLevel:  rec.AccessLevel,
			})
		case domain.UserKindEmployee:
			current := holding[rec.ID]
			if current == nil && rec.Current != "" {
				current = tickets[rec.Current]
			}
			var completed []*domain.Ticket
			for _, code := range rec.Completed {
				if t, ok := tickets[code]; ok && t.Status() == domain.TicketStatusCompleted {
					completed = append(completed, t)
				}
			}
			user = domain.EmployeeUser(domain.RestoreEmployee(rec.ID, rec.Name, rec.PasswordHash, rec.Availability, current, completed))
		default:
			return fmt.Errorf("decode user %s: unknown kind %q", rec.ID, rec.Kind)
		}
		if err := reg.Users.Add(user); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadStations(ctx context.Context, reg *Registry) error {
	recs, err := decodeAll[stationRecord](ctx, l.store, KindStation)
	if err != nil {
		return err
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })

	bound := make(map[string]bool)
	for _, rec := range recs {
		employeeID := rec.EmployeeID
		if employeeID != "" {
			if _, err := reg.Users.Employee(employeeID); err != nil || bound[employeeID] {
				l.logger.Warn("dropping station binding", zap.Int("station", rec.ID), zap.String("employee", employeeID))
				employeeID = ""
			}
		}
		if employeeID != "" {
			bound[employeeID] = true
		}
		s := domain.RestoreStation(rec.ID, rec.Number, rec.Status, employeeID, rec.Categories)
		if err := reg.Stations.Add(s); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadClients(ctx context.Context, reg *Registry) error {
	recs, err := decodeAll[clientRecord](ctx, l.store, KindClient)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := reg.Clients.Add(domain.Client{ID: rec.ID, Name: rec.Name, ContactInfo: rec.ContactInfo}); err != nil {
			return err
		}
	}
	return nil
}

// codeSequence extracts 7 from "GEN-007"; 0 when the code has no numeric
// suffix.
func codeSequence(code string) int {
	i := strings.LastIndex(code, "-")
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(code[i+1:])
	if err != nil {
		return 0
	}
	return n
}
