package repository

// Registry bundles the in-memory collections that make up the loaded state.
type Registry struct {
	Categories CategoryRepository
	Stations   StationRepository
	Users      UserRepository
	Tickets    TicketRepository
	Clients    ClientRepository
}

// NewRegistry returns empty collections.
func NewRegistry() *Registry {
	return &Registry{
		Categories: NewCategoryRepository(),
		Stations:   NewStationRepository(),
		Users:      NewUserRepository(),
		Tickets:    NewTicketRepository(),
		Clients:    NewClientRepository(),
	}
}

// Empty reports whether nothing has been loaded or registered.
func (r *Registry) Empty() bool {
	return len(r.Categories.List()) == 0 &&
		len(r.Stations.List()) == 0 &&
		len(r.Users.List()) == 0 &&
		len(r.Clients.List()) == 0 &&
		len(r.Tickets.List(TicketFilter{})) == 0
}
