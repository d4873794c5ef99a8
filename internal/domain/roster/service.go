package roster

import "context"

// Service joins the active roster with attendance records for a day.
type Service interface {
	// DayView returns one row per active employee for the given
	// YYYY-MM-DD date, in roster order.
	DayView(ctx context.Context, date string) (DayViewResponse, error)
}
