package entities

// Customer is either an Authenticated user or a Guest. The set is closed.
type Customer interface {
	ContactEmail() string
	isCustomer()
}

type Authenticated struct {
	UserID string
	Email  string
}

func (a Authenticated) ContactEmail() string { return a.Email }
func (Authenticated) isCustomer() {}

type Guest struct {
	Email string
}

func (g Guest) ContactEmail() string { return g.Email }
func (Guest) isCustomer() {}

// UserID returns the owning user id, or "" for guests.
func UserID(c Customer) string {
	if a, ok := c.(Authenticated); ok {
		return a.UserID
	}
	return ""
}

// GuestEmail returns the guest email, or "" for authenticated customers.
func GuestEmail(c Customer) string {
	if g, ok := c.(Guest); ok {
		return g.Email
	}
	return ""
}
