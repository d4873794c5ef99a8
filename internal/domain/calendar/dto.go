package calendar

import (
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
)

// DaySummary aggregates all records of one calendar day. Derived, not
// persisted; recomputed per request.
type DaySummary struct {
	Date           time.Time
	Records        []attendance.Record
	StatusCounts   map[attendance.Status]int
	DominantStatus attendance.Status
	Summary        string
}

type DaySummaryResponse struct {
	Date           string         `json:"date"`
	StatusCounts   map[string]int `json:"status_counts"`
	DominantStatus string         `json:"dominant_status"`
	Summary        string         `json:"summary"`
	RecordCount    int            `json:"record_count"`
}

type CalendarResponse struct {
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Days      []DaySummaryResponse `json:"days"`
}
