package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/persistence"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestCategoryRepository(t *testing.T) {
	repo := NewCategoryRepository()
	assert.Equal(t, 1, repo.NextID())

	require.NoError(t, repo.Add(domain.NewCategory(1, "General Inquiry", "", "GEN")))
	require.NoError(t, repo.Add(domain.NewCategory(4, "Complaints", "", "COM")))
	assert.Equal(t, 5, repo.NextID())

	err := repo.Add(domain.NewCategory(2, "Other", "", "gen"))
	assert.True(t, apperrors.HasCode(err, "CONFLICT"))

	c, err := repo.GetByPrefix("com")
	require.NoError(t, err)
	assert.Equal(t, 4, c.ID)

	_, err = repo.Get(9)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	list := repo.List()
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)
}

func TestStationRepositoryFindByEmployee(t *testing.T) {
	repo := NewStationRepository()
	s1 := domain.NewStation(1, 1)
	s2 := domain.NewStation(2, 2)
	require.NoError(t, repo.Add(s1))
	require.NoError(t, repo.Add(s2))
	assert.True(t, apperrors.HasCode(repo.Add(domain.NewStation(3, 2)), "CONFLICT"))

	s2.SetEmployee("emp2")
	got, err := repo.FindByEmployee("emp2")
	require.NoError(t, err)
	assert.Same(t, s2, got)

	_, err = repo.FindByEmployee("emp1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.FindByEmployee("")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	byNumber, err := repo.GetByNumber(1)
	require.NoError(t, err)
	assert.Same(t, s1, byNumber)
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository()
	require.NoError(t, repo.Add(domain.AdministratorUser(&domain.Administrator{ID: "admin", Name: "Admin"})))
	require.NoError(t, repo.Add(domain.EmployeeUser(domain.NewEmployee("emp1", "Juan", ""))))

	assert.True(t, apperrors.HasCode(repo.Add(domain.EmployeeUser(domain.NewEmployee("admin", "Dup", ""))), "CONFLICT"))
	assert.True(t, apperrors.HasCode(repo.Add(domain.User{Kind: domain.UserKindEmployee}), "VALIDATION_FAILED"))

	_, err := repo.Employee("admin")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	emp, err := repo.Employee("emp1")
	require.NoError(t, err)
	assert.Equal(t, "Juan", emp.Name)
	assert.Len(t, repo.Employees(), 1)
}

func TestTicketRepositoryFilters(t *testing.T) {
	repo := NewTicketRepository()
	gen := domain.NewCategory(1, "General Inquiry", "", "GEN")
	bil := domain.NewCategory(2, "Billing", "", "BIL")

	a := domain.NewTicket("GEN-001", gen, "C001", t0)
	b := domain.NewTicket("BIL-001", bil, "C002", t0.Add(time.Minute))
	c := domain.NewTicket("GEN-002", gen, "C001", t0.Add(2*time.Minute))
	for _, tk := range []*domain.Ticket{c, a, b} {
		require.NoError(t, repo.Add(tk))
	}
	assert.True(t, apperrors.HasCode(repo.Add(domain.NewTicket("GEN-001", gen, "C003", t0)), "CONFLICT"))
	require.True(t, b.ChangeStatus(domain.TicketStatusCancelled, t0.Add(time.Hour)))

	codes := func(ts []*domain.Ticket) []string {
		var out []string
		for _, tk := range ts {
			out = append(out, tk.Code)
		}
		return out
	}
	assert.Equal(t, []string{"GEN-001", "BIL-001", "GEN-002"}, codes(repo.List(TicketFilter{})))
	assert.Equal(t, []string{"GEN-001", "GEN-002"}, codes(repo.List(TicketFilter{ClientID: "C001"})))
	assert.Equal(t, []string{"BIL-001"}, codes(repo.List(TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusCancelled}})))
	assert.Equal(t, []string{"BIL-001"}, codes(repo.List(TicketFilter{GeneratedFrom: t0.Add(time.Minute), GeneratedTo: t0.Add(2 * time.Minute)})))
}

func TestClientRepository(t *testing.T) {
	repo := NewClientRepository()
	require.NoError(t, repo.Add(domain.Client{ID: "C001", Name: "Ana Martinez"}))
	assert.True(t, apperrors.HasCode(repo.Add(domain.Client{ID: "C001"}), "CONFLICT"))

	require.NoError(t, repo.Save(domain.Client{ID: "C001", Name: "Ana M.", ContactInfo: "555"}))
	got, err := repo.Get("C001")
	require.NoError(t, err)
	assert.Equal(t, "555", got.ContactInfo)

	assert.ErrorIs(t, repo.Save(domain.Client{ID: "C404"}), apperrors.ErrNotFound)
}

func buildRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()

	gen := domain.NewCategory(1, "General Inquiry", "General questions", "GEN")
	tec := domain.NewCategory(2, "Technical Support", "", "TEC")
	require.NoError(t, reg.Categories.Add(gen))
	require.NoError(t, reg.Categories.Add(tec))
	gen.AssignEmployee("emp1")

	emp := domain.NewEmployee("emp1", "Juan Lopez", "hash")
	require.NoError(t, reg.Users.Add(domain.EmployeeUser(emp)))
	require.NoError(t, reg.Users.Add(domain.AdministratorUser(&domain.Administrator{ID: "admin", Name: "Admin", PasswordHash: "h", AccessLevel: 3})))
	require.NoError(t, reg.Clients.Add(domain.Client{ID: "C001", Name: "Ana Martinez"}))

	st := domain.NewStation(1, 1)
	st.AddCategory(2)
	st.AddCategory(1)
	st.SetEmployee("emp1")
	require.True(t, st.Open())
	require.NoError(t, reg.Stations.Add(st))

	for i := 0; i < 4; i++ {
		tk := domain.NewTicket(gen.NextCode(), gen, "C001", t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, reg.Tickets.Add(tk))
		require.True(t, gen.Enqueue(tk))
	}
	tec.Deactivate()

	// GEN-001 completed, GEN-002 in service.
	require.True(t, emp.Resume())
	first := emp.Accept(t0.Add(10*time.Minute), func() *domain.Ticket { tk, _ := gen.Dequeue(); return tk })
	require.NotNil(t, first)
	require.True(t, emp.Complete(first, t0.Add(20*time.Minute)))
	require.NotNil(t, emp.Accept(t0.Add(21*time.Minute), func() *domain.Ticket { tk, _ := gen.Dequeue(); return tk }))

	return reg
}

func TestLoaderRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	require.NoError(t, SaveAll(ctx, NewFlusher(store, nil), buildRegistry(t)))

	reg, err := NewLoader(store, nil).Load(ctx)
	require.NoError(t, err)

	gen, err := reg.Categories.Get(1)
	require.NoError(t, err)
	var queued []string
	for _, tk := range gen.PeekAll() {
		queued = append(queued, tk.Code)
	}
	assert.Equal(t, []string{"GEN-003", "GEN-004"}, queued)
	assert.Equal(t, "GEN-005", gen.NextCode())
	assert.Equal(t, []string{"emp1"}, gen.Employees())

	tec, err := reg.Categories.Get(2)
	require.NoError(t, err)
	assert.False(t, tec.IsActive())

	emp, err := reg.Users.Employee("emp1")
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityBusy, emp.Availability())
	require.NotNil(t, emp.CurrentTicket())
	assert.Equal(t, "GEN-002", emp.CurrentTicket().Code)
	// Loaded references point at the registry's ticket instances.
	current, err := reg.Tickets.Get("GEN-002")
	require.NoError(t, err)
	assert.Same(t, current, emp.CurrentTicket())
	require.Len(t, emp.CompletedTickets(), 1)
	assert.Equal(t, "GEN-001", emp.CompletedTickets()[0].Code)

	st, err := reg.Stations.FindByEmployee("emp1")
	require.NoError(t, err)
	assert.Equal(t, domain.StationStatusOpen, st.Status())
	assert.Equal(t, []int{2, 1}, st.CategoryIDs())

	admin, err := reg.Users.Get("admin")
	require.NoError(t, err)
	assert.Equal(t, 3, admin.Administrator.AccessLevel)

	_, err = reg.Clients.Get("C001")
	assert.NoError(t, err)
}

func TestLoaderRepairsQueues(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	require.NoError(t, store.Put(ctx,
		persistence.Document{Kind: KindCategory, ID: "1", Body: []byte(`{"id":1,"name":"General Inquiry","prefix":"GEN","active":true,"sequence":1,"queue":["GEN-001","GEN-009","GEN-001"]}`)},
		persistence.Document{Kind: KindTicket, ID: "GEN-001", Body: []byte(`{"code":"GEN-001","status":"WAITING","category_id":1,"generated_at":"2026-03-10T09:00:00Z"}`)},
		persistence.Document{Kind: KindTicket, ID: "GEN-003", Body: []byte(`{"code":"GEN-003","status":"WAITING","category_id":1,"generated_at":"2026-03-10T09:02:00Z"}`)},
		persistence.Document{Kind: KindTicket, ID: "GEN-002", Body: []byte(`{"code":"GEN-002","status":"WAITING","category_id":1,"generated_at":"2026-03-10T09:01:00Z"}`)},
		persistence.Document{Kind: KindStation, ID: "1", Body: []byte(`{"id":1,"number":1,"status":"OPEN","employee_id":"ghost"}`)},
	))

	reg, err := NewLoader(store, nil).Load(ctx)
	require.NoError(t, err)

	gen, err := reg.Categories.Get(1)
	require.NoError(t, err)
	var queued []string
	for _, tk := range gen.PeekAll() {
		queued = append(queued, tk.Code)
	}
	assert.Equal(t, []string{"GEN-001", "GEN-002", "GEN-003"}, queued)
	assert.Equal(t, 3, gen.Sequence())

	st, err := reg.Stations.Get(1)
	require.NoError(t, err)
	assert.Empty(t, st.EmployeeID())
	assert.Equal(t, domain.StationStatusClosed, st.Status())
}

type failingStore struct {
	*persistence.MemoryStore
}

func (failingStore) Put(context.Context, ...persistence.Document) error {
	return errors.New("disk full")
}

func TestFlusherPropagatesStoreErrors(t *testing.T) {
	f := NewFlusher(failingStore{persistence.NewMemoryStore()}, nil)
	err := f.Flush(context.Background(), NewBatch().Client(domain.Client{ID: "C001"}))
	assert.EqualError(t, err, "disk full")

	assert.NoError(t, f.Flush(context.Background(), NewBatch()))
}

func TestBatchDocumentsOrder(t *testing.T) {
	gen := domain.NewCategory(1, "General Inquiry", "", "GEN")
	b := NewBatch().
		Client(domain.Client{ID: "C001"}).
		Category(gen).
		Ticket(domain.NewTicket("GEN-001", gen, "C001", t0)).
		Employee(domain.NewEmployee("emp1", "Juan", ""))

	docs, err := b.Documents()
	require.NoError(t, err)
	var kinds []string
	for _, d := range docs {
		kinds = append(kinds, d.Kind)
	}
	assert.Equal(t, []string{KindTicket, KindCategory, KindUser, KindClient}, kinds)
}
