package report

import "context"

// Service flattens merged roster rows into tabular exports.
type Service interface {
	// DailyAttendanceCSV exports the merged day view for a YYYY-MM-DD
	// date as UTF-8 comma-delimited CSV.
	DailyAttendanceCSV(ctx context.Context, date string) (AttendanceExport, error)
}
