package employee

import "time"

// Employee is a roster entry. The roster is owned by an external
// provider; this core only reads it.
type Employee struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
