package domain

// User is a dashboard account as listed by the schedule store.
type User struct {
	ID       int64
	Name     string
	Initials string
	Email    string
	Program  string
	Role     string
}
