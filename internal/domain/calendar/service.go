package calendar

import "context"

// Service groups attendance records into per-day summaries for
// month/week views.
type Service interface {
	// Aggregate summarizes every day in [startDate, endDate]
	// (YYYY-MM-DD) that has at least one record.
	Aggregate(ctx context.Context, startDate, endDate string) (CalendarResponse, error)
}
