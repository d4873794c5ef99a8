package attendance

import (
	"time"
)

// Status is the per-day attendance state of one employee.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusOnLeave Status = "on_leave"
)

// Statuses lists every valid status, in the tie-break priority order
// used by calendar aggregation (present wins over absent, absent over
// on_leave).
var Statuses = []Status{StatusPresent, StatusAbsent, StatusOnLeave}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable form used in summaries and exports.
func (s Status) Label() string {
	switch s {
	case StatusPresent:
		return "Present"
	case StatusAbsent:
		return "Absent"
	case StatusOnLeave:
		return "OnLeave"
	}
	return string(s)
}

type PunchType string

const (
	PunchIn  PunchType = "IN"
	PunchOut PunchType = "OUT"
)

func (t PunchType) Valid() bool {
	return t == PunchIn || t == PunchOut
}

// Punch is a single clock event. Immutable once recorded; ordering
// within a record is by Seq (insertion order).
type Punch struct {
	ID        string
	Type      PunchType
	PunchedAt time.Time
	Note      *string
	Location  *string
	Seq       int
}

// Record is the attendance state of one employee on one calendar day.
// At most one Record exists per (EmployeeID, Date); Punches is
// non-empty only when Status is present.
type Record struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	Status       Status
	Punches      []Punch
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Day truncates t to its calendar day in UTC. All record dates are
// normalized through this before storage or grouping.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// FirstIn returns the earliest IN punch of the record, or nil.
func (r Record) FirstIn() *Punch {
	for i := range r.Punches {
		if r.Punches[i].Type == PunchIn {
			return &r.Punches[i]
		}
	}
	return nil
}

// LastOut returns the latest OUT punch of the record, or nil.
func (r Record) LastOut() *Punch {
	for i := len(r.Punches) - 1; i >= 0; i-- {
		if r.Punches[i].Type == PunchOut {
			return &r.Punches[i]
		}
	}
	return nil
}

// SessionClosed reports whether the record already holds both an IN
// and an OUT punch. Under the current single-session policy no further
// punches are accepted once closed.
func (r Record) SessionClosed() bool {
	return r.FirstIn() != nil && r.LastOut() != nil
}
