package repository

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/persistence"
)

// Batch collects the entities touched by one operation so they can be
// written together.
type Batch struct {
	categories map[int]*domain.Category
	stations   map[int]*domain.Station
	users      map[string]domain.User
	tickets    map[string]*domain.Ticket
	clients    map[string]domain.Client
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{
		categories: make(map[int]*domain.Category),
		stations:   make(map[int]*domain.Station),
		users:      make(map[string]domain.User),
		tickets:    make(map[string]*domain.Ticket),
		clients:    make(map[string]domain.Client),
	}
}

func (b *Batch) Category(c *domain.Category) *Batch {
	if c != nil {
		b.categories[c.ID] = c
	}
	return b
}

func (b *Batch) Station(s *domain.Station) *Batch {
	if s != nil {
		b.stations[s.ID] = s
	}
	return b
}

func (b *Batch) User(u domain.User) *Batch {
	if u.Valid() {
		b.users[u.ID()] = u
	}
	return b
}

func (b *Batch) Employee(e *domain.Employee) *Batch {
	if e != nil {
		b.users[e.ID] = domain.EmployeeUser(e)
	}
	return b
}

func (b *Batch) Ticket(t *domain.Ticket) *Batch {
	if t != nil {
		b.tickets[t.Code] = t
	}
	return b
}

func (b *Batch) Client(c domain.Client) *Batch {
	b.clients[c.ID] = c
	return b
}

// Len returns the number of entities in the batch.
func (b *Batch) Len() int {
	return len(b.categories) + len(b.stations) + len(b.users) + len(b.tickets) + len(b.clients)
}

// Documents encodes the batch. Output order is stable: tickets first, then
// the entities that reference them.
func (b *Batch) Documents() ([]persistence.Document, error) {
	docs := make([]persistence.Document, 0, b.Len())
	add := func(doc persistence.Document, err error) error {
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	}

	for _, code := range sortedStringKeys(b.tickets) {
		if err := add(encodeTicket(b.tickets[code])); err != nil {
			return nil, err
		}
	}
	for _, id := range sortedIntKeys(b.categories) {
		if err := add(encodeCategory(b.categories[id])); err != nil {
			return nil, err
		}
	}
	for _, id := range sortedIntKeys(b.stations) {
		if err := add(encodeStation(b.stations[id])); err != nil {
			return nil, err
		}
	}
	for _, id := range sortedStringKeys(b.users) {
		if err := add(encodeUser(b.users[id])); err != nil {
			return nil, err
		}
	}
	for _, id := range sortedStringKeys(b.clients) {
		if err := add(encodeClient(b.clients[id])); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// Flusher writes batches to the document store.
type Flusher interface {
	Flush(ctx context.Context, batch *Batch) error
}

type storeFlusher struct {
	store  persistence.DocumentStore
	logger *zap.Logger
}

// NewFlusher returns a Flusher backed by store.
func NewFlusher(store persistence.DocumentStore, logger *zap.Logger) Flusher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &storeFlusher{store: store, logger: logger}
}

func (f *storeFlusher) Flush(ctx context.Context, batch *Batch) error {
	if batch == nil || batch.Len() == 0 {
		return nil
	}
	docs, err := batch.Documents()
	if err != nil {
		return err
	}
	if err := f.store.Put(ctx, docs...); err != nil {
		f.logger.Error("flush failed", zap.Int("documents", len(docs)), zap.Error(err))
		return err
	}
	f.logger.Debug("flushed", zap.Int("documents", len(docs)))
	return nil
}

// SaveAll writes every entity in reg. Used after seeding.
func SaveAll(ctx context.Context, f Flusher, reg *Registry) error {
	b := NewBatch()
	for _, t := range reg.Tickets.List(TicketFilter{}) {
		b.Ticket(t)
	}
	for _, c := range reg.Categories.List() {
		b.Category(c)
	}
	for _, s := range reg.Stations.List() {
		b.Station(s)
	}
	for _, u := range reg.Users.List() {
		b.User(u)
	}
	for _, c := range reg.Clients.List() {
		b.Client(c)
	}
	return f.Flush(ctx, b)
}

func sortedStringKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIntKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
