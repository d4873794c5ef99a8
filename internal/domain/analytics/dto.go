package analytics

// TrendPoint tallies statuses within one (year, month) bucket.
type TrendPoint struct {
	Year    int `json:"year"`
	Month   int `json:"month"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
	OnLeave int `json:"on_leave"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// EmployeeRank orders one employee by their total IN-punch count.
type EmployeeRank struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	PunchCount   int    `json:"punch_count"`
}

// Snapshot is the read-only analytics projection over a record set.
type Snapshot struct {
	Trend                 []TrendPoint   `json:"trend"`
	StatusBreakdown       []StatusCount  `json:"status_breakdown"`
	TopAttendance         []EmployeeRank `json:"top_attendance"`
	MostPunctual          *EmployeeRank  `json:"most_punctual,omitempty"`
	LeastPunctual         *EmployeeRank  `json:"least_punctual,omitempty"`
	TotalPunchesToday     int            `json:"total_punches_today"`
	TotalPunchesThisMonth int            `json:"total_punches_this_month"`
	AvgPunchesPerEmployee float64        `json:"avg_punches_per_employee"`
}
