package domain

// Client is a walk-in customer who requests tickets.
type Client struct {
	ID          string
	Name        string
	ContactInfo string
}
